package models

import (
	"errors"
	"fmt"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// ErrUnknownStatus flags a remote status value outside the closed enum
var ErrUnknownStatus = errors.New("unknown task status")

// ParseTaskStatus maps a raw remote status string onto the closed enum.
// Anything unrecognized is an error, never treated as a live task.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch TaskStatus(raw) {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return TaskStatus(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// Terminal reports whether the status ends the polling loop
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskHandle references a job owned by the remote backend
type TaskHandle struct {
	TaskID string `json:"task_id"`
}

// TaskStatusResponse is the shape of GET /task/{task_id}
type TaskStatusResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	ResultFile string `json:"result_file,omitempty"`
}

// TaskInfo is one entry of GET /tasks
type TaskInfo struct {
	TaskID      string `json:"task_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	ResultFile  string `json:"result_file,omitempty"`
}
