package session

import (
	"math"

	"github.com/devbm7/synthgen/internal/models"
)

// State is a workflow's position in its lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Active reports whether the workflow currently owns a task handle
func (s State) Active() bool {
	return s != StateIdle
}

// Workflow tracks one generation job from submission to a terminal state.
// Two independent instances live in a session: one for fresh generation
// and one for appending to an uploaded file.
type Workflow struct {
	State      State              `json:"state"`
	TaskID     string             `json:"task_id,omitempty"`
	Failure    string             `json:"failure,omitempty"`
	ResultFile string             `json:"result_file,omitempty"`
	Result     *models.DataResult `json:"result,omitempty"`
	ResultTask string             `json:"result_task,omitempty"`
	CSVFile    string             `json:"csv_file,omitempty"`
	CSVTask    string             `json:"csv_task,omitempty"`
}

// reset discards the task handle and everything cached for it
func (w *Workflow) reset() {
	w.State = StateIdle
	w.TaskID = ""
	w.Failure = ""
	w.ResultFile = ""
	w.clearCaches()
}

// clearCaches invalidates the cached result and CSV reference
func (w *Workflow) clearCaches() {
	w.Result = nil
	w.ResultTask = ""
	w.CSVFile = ""
	w.CSVTask = ""
}

// attach points the workflow at a task handle, invalidating stale caches
func (w *Workflow) attach(taskID string, state State) {
	w.clearCaches()
	w.TaskID = taskID
	w.Failure = ""
	w.ResultFile = ""
	w.State = state
}

// UploadContext holds the backend's view of an uploaded source CSV
type UploadContext struct {
	FileID          string              `json:"file_id"`
	Filename        string              `json:"filename"`
	DetectedColumns []models.ColumnSpec `json:"detected_columns"`
	RowCount        int                 `json:"row_count"`
}

// Session is the full serializable state of one user session. There are
// no ambient globals: every controller operation reads and mutates this
// struct, and persistence is explicit via the storage package.
type Session struct {
	Token    string              `json:"token"`
	Columns  []models.ColumnSpec `json:"columns,omitempty"`
	Generate Workflow            `json:"generate"`
	Append   Workflow            `json:"append"`
	Upload   *UploadContext      `json:"upload,omitempty"`
}

// NewSession creates an empty session with both workflows idle
func NewSession(token string) *Session {
	return &Session{
		Token:    token,
		Generate: Workflow{State: StateIdle},
		Append:   Workflow{State: StateIdle},
	}
}

// DefaultAppendRows suggests how many rows to append for an uploaded file:
// 10% of the detected rows, at least 1, at most 10.
func DefaultAppendRows(detectedRows int) int {
	suggested := int(math.Round(float64(detectedRows) * 0.1))
	if suggested < 1 {
		suggested = 1
	}
	if suggested > 10 {
		suggested = 10
	}
	return suggested
}
