package services

import (
	"fmt"

	"github.com/devbm7/synthgen/internal/client"
	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
)

// GenerationService handles generation job operations against the backend
type GenerationService struct {
	client *client.APIClient
}

// NewGenerationService creates a new generation service
func NewGenerationService(apiClient *client.APIClient) *GenerationService {
	return &GenerationService{client: apiClient}
}

// CreateJob submits a new generation job and returns its task handle
func (s *GenerationService) CreateJob(req models.GenerateRequest) (models.TaskHandle, error) {
	var handle models.TaskHandle
	if err := s.client.Post("/generate", req, &handle); err != nil {
		return models.TaskHandle{}, fmt.Errorf("failed to create generation job: %w", err)
	}

	if handle.TaskID == "" {
		return models.TaskHandle{}, fmt.Errorf("generation job response is missing task_id")
	}

	logger.Info("Generation task submitted: %s", handle.TaskID)
	return handle, nil
}

// TaskStatus fetches the current status of a task
func (s *GenerationService) TaskStatus(taskID string) (models.TaskStatusResponse, error) {
	var status models.TaskStatusResponse
	endpoint := fmt.Sprintf("/task/%s", taskID)
	if err := s.client.Get(endpoint, &status); err != nil {
		return models.TaskStatusResponse{}, fmt.Errorf("failed to fetch status for task %s: %w", taskID, err)
	}
	return status, nil
}

// ListTasks fetches all known tasks from the backend
func (s *GenerationService) ListTasks() ([]models.TaskInfo, error) {
	var tasks []models.TaskInfo
	if err := s.client.Get("/tasks", &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask cancels a task on the backend
func (s *GenerationService) DeleteTask(taskID string) error {
	endpoint := fmt.Sprintf("/tasks/%s", taskID)
	if err := s.client.Delete(endpoint, nil); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}

	logger.Info("Task %s deleted", taskID)
	return nil
}

// FetchData fetches the generated dataset of a completed task
func (s *GenerationService) FetchData(taskID string) (models.DataResult, error) {
	var result models.DataResult
	endpoint := fmt.Sprintf("/data/%s", taskID)
	if err := s.client.Get(endpoint, &result); err != nil {
		return models.DataResult{}, fmt.Errorf("failed to fetch data for task %s: %w", taskID, err)
	}
	return result, nil
}

// ConvertToCSV asks the backend to convert a completed task's result to CSV
func (s *GenerationService) ConvertToCSV(taskID string) (models.CSVResult, error) {
	var result models.CSVResult
	endpoint := fmt.Sprintf("/convert_to_csv/%s", taskID)
	if err := s.client.Post(endpoint, nil, &result); err != nil {
		return models.CSVResult{}, fmt.Errorf("failed to convert task %s to CSV: %w", taskID, err)
	}

	if result.CSVFile == "" {
		return models.CSVResult{}, fmt.Errorf("CSV conversion response is missing csv_file")
	}

	return result, nil
}
