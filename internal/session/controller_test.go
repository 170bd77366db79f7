package session

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbm7/synthgen/internal/models"
)

// --- fakes ---

type fakeGenerator struct {
	createCalls  int
	createReq    models.GenerateRequest
	createHandle models.TaskHandle
	createErr    error

	statusCalls int
	statusQueue []models.TaskStatusResponse
	statusErr   error

	fetchCalls  int
	fetchResult models.DataResult
	fetchErr    error

	deleteCalls int
	deleteErr   error

	convertCalls  int
	convertResult models.CSVResult
	convertErr    error

	tasks []models.TaskInfo
}

func (f *fakeGenerator) CreateJob(req models.GenerateRequest) (models.TaskHandle, error) {
	f.createCalls++
	f.createReq = req
	if f.createErr != nil {
		return models.TaskHandle{}, f.createErr
	}
	return f.createHandle, nil
}

func (f *fakeGenerator) TaskStatus(taskID string) (models.TaskStatusResponse, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return models.TaskStatusResponse{}, f.statusErr
	}
	if len(f.statusQueue) == 0 {
		return models.TaskStatusResponse{Status: "pending"}, nil
	}
	next := f.statusQueue[0]
	if len(f.statusQueue) > 1 {
		f.statusQueue = f.statusQueue[1:]
	}
	return next, nil
}

func (f *fakeGenerator) ListTasks() ([]models.TaskInfo, error) {
	return f.tasks, nil
}

func (f *fakeGenerator) DeleteTask(taskID string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeGenerator) FetchData(taskID string) (models.DataResult, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return models.DataResult{}, f.fetchErr
	}
	return f.fetchResult, nil
}

func (f *fakeGenerator) ConvertToCSV(taskID string) (models.CSVResult, error) {
	f.convertCalls++
	if f.convertErr != nil {
		return models.CSVResult{}, f.convertErr
	}
	return f.convertResult, nil
}

type fakeUploader struct {
	uploadCalls  int
	uploadResult models.UploadResult
	uploadErr    error

	appendCalls  int
	appendReq    models.AppendRequest
	appendHandle models.TaskHandle
	appendErr    error

	downloadContent string
}

func (f *fakeUploader) UploadCSV(filename string, file io.Reader) (models.UploadResult, error) {
	f.uploadCalls++
	if f.uploadErr != nil {
		return models.UploadResult{}, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeUploader) CreateAppendJob(req models.AppendRequest) (models.TaskHandle, error) {
	f.appendCalls++
	f.appendReq = req
	if f.appendErr != nil {
		return models.TaskHandle{}, f.appendErr
	}
	return f.appendHandle, nil
}

func (f *fakeUploader) DownloadAppended(fileID string) (string, error) {
	return f.downloadContent, nil
}

func newTestController(gen *fakeGenerator, up *fakeUploader) *Controller {
	return NewController(gen, up, NewSession("test-token"))
}

func ageColumn(t *testing.T) models.ColumnSpec {
	t.Helper()
	ge, le := 18.0, 65.0
	return models.ColumnSpec{
		Name:        "age",
		Type:        models.TypeInteger,
		Constraints: models.NumericConstraints(&ge, &le),
	}
}

// --- column schema ---

func TestAddColumn_RejectsEmptyName(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	err := ctrl.AddColumn(models.ColumnSpec{Name: "", Type: models.TypeString})
	require.Error(t, err)
}

func TestAddColumn_RejectsDuplicateName(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(models.ColumnSpec{Name: "email", Type: models.TypeEmail}))

	err := ctrl.AddColumn(models.ColumnSpec{Name: "email", Type: models.TypeString})
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestAddColumn_RejectsInapplicableConstraints(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	err := ctrl.AddColumn(models.ColumnSpec{
		Name:        "city",
		Type:        models.TypeCity,
		Constraints: map[string]any{"ge": 1.0},
	})
	require.Error(t, err)
}

func TestClearColumns(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))
	ctrl.ClearColumns()
	assert.Empty(t, ctrl.Session().Columns)
}

// --- submit ---

func TestSubmit_EmptySchemaIssuesNoCall(t *testing.T) {
	gen := &fakeGenerator{}
	ctrl := newTestController(gen, &fakeUploader{})

	err := ctrl.Submit(GenerateOptions{Rows: 5, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10})
	require.ErrorIs(t, err, ErrNoColumns)
	assert.Equal(t, 0, gen.createCalls)
	assert.Equal(t, StateIdle, ctrl.Session().Generate.State)
}

func TestSubmit_StoresReturnedHandle(t *testing.T) {
	gen := &fakeGenerator{createHandle: models.TaskHandle{TaskID: "t1"}}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))

	err := ctrl.Submit(GenerateOptions{Rows: 5, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, gen.createCalls)
	assert.Equal(t, "t1", ctrl.Session().Generate.TaskID)
	assert.Equal(t, StateSubmitted, ctrl.Session().Generate.State)
	assert.Equal(t, 5, gen.createReq.Rows)
	assert.Equal(t, "ollama", gen.createReq.ModelProvider)
	require.Len(t, gen.createReq.Columns, 1)
	assert.Equal(t, map[string]any{"ge": 18.0, "le": 65.0}, gen.createReq.Columns[0].Constraints)
}

func TestSubmit_FailureStaysIdle(t *testing.T) {
	gen := &fakeGenerator{createErr: errors.New("connection refused")}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))

	err := ctrl.Submit(GenerateOptions{Rows: 5, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10})
	require.Error(t, err)
	assert.Equal(t, StateIdle, ctrl.Session().Generate.State)
	assert.Empty(t, ctrl.Session().Generate.TaskID)
}

func TestSubmit_RejectsUnknownModel(t *testing.T) {
	gen := &fakeGenerator{}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))

	err := ctrl.Submit(GenerateOptions{Rows: 5, Model: "gpt-99", Provider: "ollama", BatchSize: 10})
	require.Error(t, err)
	assert.Equal(t, 0, gen.createCalls)
}

// --- polling and result fetch ---

func TestPoll_PendingThenCompleted_SingleFetch(t *testing.T) {
	gen := &fakeGenerator{
		createHandle: models.TaskHandle{TaskID: "t1"},
		statusQueue: []models.TaskStatusResponse{
			{Status: "pending"},
			{Status: "completed", ResultFile: "results/t1.json"},
		},
		fetchResult: models.DataResult{Data: []models.Row{
			{"age": 21}, {"age": 34}, {"age": 45}, {"age": 52}, {"age": 63},
		}},
	}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))
	require.NoError(t, ctrl.Submit(GenerateOptions{Rows: 5, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10}))

	workflow := &ctrl.Session().Generate

	status, err := ctrl.Poll(workflow)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, status)
	assert.Equal(t, StatePolling, workflow.State)

	status, err = ctrl.Poll(workflow)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, status)
	assert.Equal(t, StateCompleted, workflow.State)
	assert.Equal(t, "results/t1.json", workflow.ResultFile)

	first, err := ctrl.FetchResult(workflow)
	require.NoError(t, err)
	second, err := ctrl.FetchResult(workflow)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.fetchCalls)
	assert.Len(t, first.Data, 5)
	assert.Equal(t, first, second)
}

func TestPoll_FailedCarriesMessageAndStopsPolling(t *testing.T) {
	gen := &fakeGenerator{
		createHandle: models.TaskHandle{TaskID: "t1"},
		statusQueue: []models.TaskStatusResponse{
			{Status: "failed", Message: "model timeout"},
		},
	}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))
	require.NoError(t, ctrl.Submit(GenerateOptions{Rows: 5, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10}))

	workflow := &ctrl.Session().Generate
	status, err := ctrl.Poll(workflow)
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusFailed, status)
	assert.True(t, status.Terminal())
	assert.Equal(t, StateFailed, workflow.State)
	assert.Contains(t, workflow.Failure, "model timeout")
}

func TestPoll_UnknownStatusIsDistinctError(t *testing.T) {
	gen := &fakeGenerator{
		statusQueue: []models.TaskStatusResponse{{Status: "exploded"}},
	}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.Load("t1"))

	workflow := &ctrl.Session().Generate
	_, err := ctrl.Poll(workflow)
	require.ErrorIs(t, err, models.ErrUnknownStatus)
	// state untouched, next tick retries
	assert.Equal(t, StatePolling, workflow.State)
}

func TestPoll_WithoutTask(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	_, err := ctrl.Poll(&ctrl.Session().Generate)
	require.ErrorIs(t, err, ErrNoActiveTask)
}

func TestFetchResult_RequiresCompleted(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	require.NoError(t, ctrl.Load("t1"))

	_, err := ctrl.FetchResult(&ctrl.Session().Generate)
	require.ErrorIs(t, err, ErrNotCompleted)
}

// --- CSV conversion ---

func TestExportCSV_CachesFileReference(t *testing.T) {
	gen := &fakeGenerator{
		statusQueue:   []models.TaskStatusResponse{{Status: "completed"}},
		convertResult: models.CSVResult{CSVFile: "results/t1.csv"},
	}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.Load("t1"))

	workflow := &ctrl.Session().Generate
	_, err := ctrl.Poll(workflow)
	require.NoError(t, err)

	path, err := ctrl.ExportCSV(workflow)
	require.NoError(t, err)
	assert.Equal(t, "results/t1.csv", path)

	_, err = ctrl.ExportCSV(workflow)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.convertCalls)
}

// --- cancel ---

func TestCancel_ClearsEverything(t *testing.T) {
	gen := &fakeGenerator{
		createHandle: models.TaskHandle{TaskID: "t1"},
		statusQueue:  []models.TaskStatusResponse{{Status: "completed"}},
		fetchResult:  models.DataResult{Data: []models.Row{{"age": 30}}},
		convertResult: models.CSVResult{
			CSVFile: "results/t1.csv",
		},
	}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.AddColumn(ageColumn(t)))
	require.NoError(t, ctrl.Submit(GenerateOptions{Rows: 1, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10}))

	workflow := &ctrl.Session().Generate
	_, err := ctrl.Poll(workflow)
	require.NoError(t, err)
	_, err = ctrl.FetchResult(workflow)
	require.NoError(t, err)
	_, err = ctrl.ExportCSV(workflow)
	require.NoError(t, err)

	require.NoError(t, ctrl.Cancel(workflow))

	assert.Equal(t, 1, gen.deleteCalls)
	assert.Equal(t, StateIdle, workflow.State)
	assert.Empty(t, workflow.TaskID)
	assert.Nil(t, workflow.Result)
	assert.Empty(t, workflow.CSVFile)
}

func TestCancel_ClearsStateEvenWhenDeletionFails(t *testing.T) {
	gen := &fakeGenerator{deleteErr: errors.New("backend unavailable")}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.Load("t1"))

	workflow := &ctrl.Session().Generate
	err := ctrl.Cancel(workflow)
	require.Error(t, err)

	assert.Equal(t, StateIdle, workflow.State)
	assert.Empty(t, workflow.TaskID)
	assert.Nil(t, workflow.Result)
	assert.Empty(t, workflow.CSVFile)
}

// --- load ---

func TestLoad_ReattachesAndInvalidatesCaches(t *testing.T) {
	gen := &fakeGenerator{
		statusQueue: []models.TaskStatusResponse{{Status: "completed"}},
		fetchResult: models.DataResult{Data: []models.Row{{"age": 30}}},
	}
	ctrl := newTestController(gen, &fakeUploader{})
	require.NoError(t, ctrl.Load("t1"))

	workflow := &ctrl.Session().Generate
	assert.Equal(t, StatePolling, workflow.State)

	_, err := ctrl.Poll(workflow)
	require.NoError(t, err)
	_, err = ctrl.FetchResult(workflow)
	require.NoError(t, err)
	require.NotNil(t, workflow.Result)

	require.NoError(t, ctrl.Load("t2"))
	assert.Equal(t, "t2", workflow.TaskID)
	assert.Nil(t, workflow.Result)
	assert.Empty(t, workflow.CSVFile)
}

func TestLoad_RejectsEmptyID(t *testing.T) {
	ctrl := newTestController(&fakeGenerator{}, &fakeUploader{})
	require.ErrorIs(t, ctrl.Load(""), ErrEmptyTaskID)
}

// --- upload and append ---

func TestUpload_StoresDetectedSchema(t *testing.T) {
	up := &fakeUploader{
		uploadResult: models.UploadResult{
			FileID:   "f1",
			Filename: "people.csv",
			ColumnInfo: []models.ColumnSpec{
				{Name: "name", Type: models.TypeName},
				{Name: "age", Type: models.TypeInteger},
			},
			RowCount: 100,
		},
	}
	ctrl := newTestController(&fakeGenerator{}, up)

	result, err := ctrl.Upload("people.csv", strings.NewReader("name,age\n"))
	require.NoError(t, err)
	assert.Equal(t, 100, result.RowCount)

	upload := ctrl.Session().Upload
	require.NotNil(t, upload)
	assert.Equal(t, "f1", upload.FileID)
	assert.Len(t, upload.DetectedColumns, 2)
	assert.Equal(t, 10, DefaultAppendRows(upload.RowCount))
}

func TestSubmitAppend_RequiresUpload(t *testing.T) {
	up := &fakeUploader{}
	ctrl := newTestController(&fakeGenerator{}, up)

	err := ctrl.SubmitAppend(AppendOptions{Rows: 10, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10})
	require.ErrorIs(t, err, ErrNoUpload)
	assert.Equal(t, 0, up.appendCalls)
}

func TestSubmitAppend_UsesUploadedFileID(t *testing.T) {
	up := &fakeUploader{
		uploadResult: models.UploadResult{FileID: "f1", Filename: "people.csv", RowCount: 100},
		appendHandle: models.TaskHandle{TaskID: "a1"},
	}
	ctrl := newTestController(&fakeGenerator{}, up)

	_, err := ctrl.Upload("people.csv", strings.NewReader("name,age\n"))
	require.NoError(t, err)

	err = ctrl.SubmitAppend(AppendOptions{Rows: 10, Model: "custom-model", Provider: "ollama", BatchSize: 10})
	require.NoError(t, err)

	assert.Equal(t, "f1", up.appendReq.FileID)
	assert.Equal(t, "custom-model", up.appendReq.Model)
	assert.Equal(t, "a1", ctrl.Session().Append.TaskID)
	assert.Equal(t, StateSubmitted, ctrl.Session().Append.State)
}

func TestResetUpload_DiscardsNestedAppendState(t *testing.T) {
	up := &fakeUploader{
		uploadResult: models.UploadResult{FileID: "f1", Filename: "people.csv", RowCount: 100},
		appendHandle: models.TaskHandle{TaskID: "a1"},
	}
	ctrl := newTestController(&fakeGenerator{}, up)

	_, err := ctrl.Upload("people.csv", strings.NewReader("name,age\n"))
	require.NoError(t, err)
	require.NoError(t, ctrl.SubmitAppend(AppendOptions{Rows: 10, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10}))

	ctrl.ResetUpload()

	assert.Nil(t, ctrl.Session().Upload)
	assert.Equal(t, StateIdle, ctrl.Session().Append.State)
	assert.Empty(t, ctrl.Session().Append.TaskID)
}

// --- workflow independence ---

func TestWorkflows_DoNotCrossContaminate(t *testing.T) {
	gen := &fakeGenerator{
		createHandle: models.TaskHandle{TaskID: "g1"},
		statusQueue: []models.TaskStatusResponse{
			{Status: "completed"}, // generate poll
			{Status: "completed"}, // append poll
		},
		fetchResult: models.DataResult{Data: []models.Row{{"age": 30}}},
	}
	up := &fakeUploader{
		uploadResult: models.UploadResult{FileID: "f1", Filename: "people.csv", RowCount: 50},
		appendHandle: models.TaskHandle{TaskID: "a1"},
	}
	ctrl := newTestController(gen, up)

	require.NoError(t, ctrl.AddColumn(ageColumn(t)))
	require.NoError(t, ctrl.Submit(GenerateOptions{Rows: 1, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10}))
	_, err := ctrl.Upload("people.csv", strings.NewReader("name,age\n"))
	require.NoError(t, err)
	require.NoError(t, ctrl.SubmitAppend(AppendOptions{Rows: 5, Model: "gemma3:latest", Provider: "ollama", BatchSize: 10}))

	generate := &ctrl.Session().Generate
	appendWF := &ctrl.Session().Append

	assert.Equal(t, "g1", generate.TaskID)
	assert.Equal(t, "a1", appendWF.TaskID)

	_, err = ctrl.Poll(generate)
	require.NoError(t, err)
	_, err = ctrl.FetchResult(generate)
	require.NoError(t, err)

	// the generate workflow's cache never leaks into the append workflow
	assert.NotNil(t, generate.Result)
	assert.Nil(t, appendWF.Result)

	_, err = ctrl.Poll(appendWF)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, appendWF.State)

	require.NoError(t, ctrl.Cancel(appendWF))
	assert.Equal(t, StateIdle, appendWF.State)
	assert.Equal(t, StateCompleted, generate.State)
	assert.NotNil(t, generate.Result)
}

// --- defaults ---

func TestDefaultAppendRows(t *testing.T) {
	assert.Equal(t, 10, DefaultAppendRows(100))
	assert.Equal(t, 1, DefaultAppendRows(0))
	assert.Equal(t, 1, DefaultAppendRows(5))
	assert.Equal(t, 2, DefaultAppendRows(20))
	// the suggestion is clamped at 10, matching the original default
	assert.Equal(t, 10, DefaultAppendRows(1000))
}
