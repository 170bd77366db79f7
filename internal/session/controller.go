package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
)

// Sentinel errors for controller misuse
var (
	ErrNoColumns       = errors.New("schema has no columns")
	ErrDuplicateColumn = errors.New("column name already defined")
	ErrNoActiveTask    = errors.New("no active task")
	ErrNotCompleted    = errors.New("task is not completed")
	ErrNoUpload        = errors.New("no uploaded file")
	ErrEmptyTaskID     = errors.New("task id cannot be empty")
)

// Generator is the slice of the backend driving generation jobs
type Generator interface {
	CreateJob(req models.GenerateRequest) (models.TaskHandle, error)
	TaskStatus(taskID string) (models.TaskStatusResponse, error)
	ListTasks() ([]models.TaskInfo, error)
	DeleteTask(taskID string) error
	FetchData(taskID string) (models.DataResult, error)
	ConvertToCSV(taskID string) (models.CSVResult, error)
}

// Uploader is the slice of the backend driving the upload/append flow
type Uploader interface {
	UploadCSV(filename string, file io.Reader) (models.UploadResult, error)
	CreateAppendJob(req models.AppendRequest) (models.TaskHandle, error)
	DownloadAppended(fileID string) (string, error)
}

// GenerateOptions carries the tunables of a fresh generation job
type GenerateOptions struct {
	Rows      int
	Model     string
	Provider  string
	BatchSize int
	Parallel  bool
}

// AppendOptions carries the tunables of an append job
type AppendOptions struct {
	Rows      int
	Model     string
	Provider  string
	BatchSize int
	Parallel  bool
}

// Controller owns a session's state and drives the backend through it.
// Every remote call is a single blocking round trip; failures are
// returned to the caller and never mutate state beyond what the
// transition rules allow.
type Controller struct {
	generator Generator
	uploader  Uploader
	session   *Session
}

// NewController creates a controller over an existing session
func NewController(generator Generator, uploader Uploader, sess *Session) *Controller {
	return &Controller{
		generator: generator,
		uploader:  uploader,
		session:   sess,
	}
}

// Session exposes the controller's state for rendering and persistence
func (c *Controller) Session() *Session {
	return c.session
}

// AddColumn appends a column to the schema. Names must be unique within
// the set and constraints must be applicable to the column type.
func (c *Controller) AddColumn(col models.ColumnSpec) error {
	if err := col.Validate(); err != nil {
		return err
	}

	for _, existing := range c.session.Columns {
		if existing.Name == col.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
	}

	c.session.Columns = append(c.session.Columns, col)
	return nil
}

// ClearColumns discards the whole schema. Columns are never edited or
// removed individually, only reset as a set.
func (c *Controller) ClearColumns() {
	c.session.Columns = nil
}

// Submit packages the schema into a generation job. It performs no
// network call when the schema is empty.
func (c *Controller) Submit(opts GenerateOptions) error {
	if len(c.session.Columns) == 0 {
		return ErrNoColumns
	}

	if err := models.ValidateModel(opts.Provider, opts.Model); err != nil {
		return err
	}

	handle, err := c.generator.CreateJob(models.GenerateRequest{
		Columns:       c.session.Columns,
		Rows:          opts.Rows,
		Model:         opts.Model,
		ModelProvider: opts.Provider,
		BatchSize:     opts.BatchSize,
		Parallel:      opts.Parallel,
	})
	if err != nil {
		return err
	}

	c.session.Generate.attach(handle.TaskID, StateSubmitted)
	return nil
}

// SubmitAppend packages an append job against the uploaded file. The
// model is free text here; only the provider is checked against the
// catalog.
func (c *Controller) SubmitAppend(opts AppendOptions) error {
	if c.session.Upload == nil {
		return ErrNoUpload
	}

	if _, err := models.LookupProvider(opts.Provider); err != nil {
		return err
	}

	handle, err := c.uploader.CreateAppendJob(models.AppendRequest{
		FileID:        c.session.Upload.FileID,
		Rows:          opts.Rows,
		Model:         opts.Model,
		ModelProvider: opts.Provider,
		BatchSize:     opts.BatchSize,
		Parallel:      opts.Parallel,
	})
	if err != nil {
		return err
	}

	c.session.Append.attach(handle.TaskID, StateSubmitted)
	return nil
}

// Poll issues one status fetch for the workflow's task handle and maps
// the remote status onto the state machine: pending/running keep
// polling, completed and failed are terminal. A poll error leaves the
// state untouched so the next tick retries the same request.
func (c *Controller) Poll(w *Workflow) (models.TaskStatus, error) {
	if w.TaskID == "" {
		return "", ErrNoActiveTask
	}

	resp, err := c.generator.TaskStatus(w.TaskID)
	if err != nil {
		return "", err
	}

	status, err := models.ParseTaskStatus(resp.Status)
	if err != nil {
		return "", fmt.Errorf("task %s: %w", w.TaskID, err)
	}

	switch status {
	case models.TaskStatusPending, models.TaskStatusRunning:
		w.State = StatePolling
	case models.TaskStatusCompleted:
		w.State = StateCompleted
		w.ResultFile = resp.ResultFile
	case models.TaskStatusFailed:
		w.State = StateFailed
		w.Failure = resp.Message
		logger.Error("Task %s failed: %s", w.TaskID, resp.Message)
	}

	return status, nil
}

// FetchResult returns the generated dataset of a completed workflow.
// The first call fetches from the backend; subsequent calls for the
// same task handle return the cached copy without a network round trip.
func (c *Controller) FetchResult(w *Workflow) (models.DataResult, error) {
	if w.State != StateCompleted {
		return models.DataResult{}, ErrNotCompleted
	}

	if w.Result != nil && w.ResultTask == w.TaskID {
		return *w.Result, nil
	}

	result, err := c.generator.FetchData(w.TaskID)
	if err != nil {
		return models.DataResult{}, err
	}

	w.Result = &result
	w.ResultTask = w.TaskID
	return result, nil
}

// ExportCSV asks the backend to convert the completed task to CSV and
// caches the returned file reference for the task handle.
func (c *Controller) ExportCSV(w *Workflow) (string, error) {
	if w.State != StateCompleted {
		return "", ErrNotCompleted
	}

	if w.CSVFile != "" && w.CSVTask == w.TaskID {
		return w.CSVFile, nil
	}

	result, err := c.generator.ConvertToCSV(w.TaskID)
	if err != nil {
		return "", err
	}

	w.CSVFile = result.CSVFile
	w.CSVTask = w.TaskID
	return result.CSVFile, nil
}

// Cancel deletes the workflow's task best-effort and always moves the
// workflow back to idle, dropping the task handle, the cached result
// and the CSV reference even when the deletion call fails.
func (c *Controller) Cancel(w *Workflow) error {
	if w.TaskID == "" {
		return ErrNoActiveTask
	}

	deleteErr := c.generator.DeleteTask(w.TaskID)
	if deleteErr != nil {
		logger.Warn("Failed to delete task %s: %v", w.TaskID, deleteErr)
	}

	w.reset()
	return deleteErr
}

// Load re-attaches the generation workflow to a previously listed task,
// reusing the polling path from a cold state. Stale caches from the old
// handle are invalidated.
func (c *Controller) Load(taskID string) error {
	if taskID == "" {
		return ErrEmptyTaskID
	}

	c.session.Generate.attach(taskID, StatePolling)
	logger.Info("Loaded task %s into the session", taskID)
	return nil
}

// ListTasks returns all tasks known to the backend. This is a stateless
// read used to populate the load-by-id affordance.
func (c *Controller) ListTasks() ([]models.TaskInfo, error) {
	return c.generator.ListTasks()
}

// Upload sends a source CSV to the backend and records the detected
// schema in the session.
func (c *Controller) Upload(filename string, file io.Reader) (models.UploadResult, error) {
	result, err := c.uploader.UploadCSV(filename, file)
	if err != nil {
		return models.UploadResult{}, err
	}

	c.session.Upload = &UploadContext{
		FileID:          result.FileID,
		Filename:        result.Filename,
		DetectedColumns: result.ColumnInfo,
		RowCount:        result.RowCount,
	}
	return result, nil
}

// ResetUpload discards the uploaded-file context together with any
// nested append-workflow state.
func (c *Controller) ResetUpload() {
	c.session.Upload = nil
	c.session.Append.reset()
}

// DownloadAppended fetches the merged CSV content for the uploaded file
func (c *Controller) DownloadAppended() (string, error) {
	if c.session.Upload == nil {
		return "", ErrNoUpload
	}
	return c.uploader.DownloadAppended(c.session.Upload.FileID)
}
