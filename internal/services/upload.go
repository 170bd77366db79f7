package services

import (
	"fmt"
	"io"

	"github.com/devbm7/synthgen/internal/client"
	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
)

// UploadService handles the upload-and-append workflow against the backend
type UploadService struct {
	client *client.APIClient
}

// NewUploadService creates a new upload service
func NewUploadService(apiClient *client.APIClient) *UploadService {
	return &UploadService{client: apiClient}
}

// UploadCSV uploads a source CSV and returns the detected schema
func (s *UploadService) UploadCSV(filename string, file io.Reader) (models.UploadResult, error) {
	var result models.UploadResult
	if err := s.client.UploadFile("/upload_csv", "file", filename, file, &result); err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to upload CSV %s: %w", filename, err)
	}

	if result.FileID == "" {
		return models.UploadResult{}, fmt.Errorf("upload response is missing file_id")
	}

	logger.Info("Uploaded %s as %s (%d rows detected)", filename, result.FileID, result.RowCount)
	return result, nil
}

// CreateAppendJob submits a job that appends generated rows to an uploaded file
func (s *UploadService) CreateAppendJob(req models.AppendRequest) (models.TaskHandle, error) {
	var handle models.TaskHandle
	if err := s.client.Post("/append_data", req, &handle); err != nil {
		return models.TaskHandle{}, fmt.Errorf("failed to create append job: %w", err)
	}

	if handle.TaskID == "" {
		return models.TaskHandle{}, fmt.Errorf("append job response is missing task_id")
	}

	logger.Info("Append task submitted: %s", handle.TaskID)
	return handle, nil
}

// DownloadAppended fetches the merged CSV content for an uploaded file
func (s *UploadService) DownloadAppended(fileID string) (string, error) {
	var result models.AppendedContent
	endpoint := fmt.Sprintf("/download_appended/%s", fileID)
	if err := s.client.Get(endpoint, &result); err != nil {
		return "", fmt.Errorf("failed to download appended file %s: %w", fileID, err)
	}
	return result.Content, nil
}
