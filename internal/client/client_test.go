package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbm7/synthgen/internal/config"
)

func newTestClient(t *testing.T, baseURL string) *APIClient {
	t.Helper()
	cfg := config.NewConfig()
	cfg.BaseURL = baseURL
	return NewAPIClient(cfg)
}

func TestBuildURL_TrimsTrailingSlash(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000/generate", c.BuildURL("/generate"))
}

func TestPost_SendsJSONAndDecodesResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["rows"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"task_id": "t1"})
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	var result struct {
		TaskID string `json:"task_id"`
	}
	err := c.Post("/generate", map[string]any{"rows": 5}, &result)
	require.NoError(t, err)
	assert.Equal(t, "t1", result.TaskID)
}

func TestGet_NonSuccessStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "task not found", http.StatusNotFound)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	var result map[string]any
	err := c.Get("/task/missing", &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "task not found")
}

func TestGet_MalformedResponseIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	var result map[string]any
	err := c.Get("/tasks", &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestGet_TransportFailureIsError(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	var result map[string]any
	err := c.Get("/tasks", &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestDelete_AcceptsAny2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	require.NoError(t, c.Delete("/tasks/t1", nil))
}

func TestPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	assert.NoError(t, c.Ping())
}

func TestPing_NonOKStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	err := c.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestWaitForAPIReady(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	assert.True(t, c.WaitForAPIReady(1))
}

func TestWaitForAPIReady_GivesUpAfterMaxAttempts(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	assert.False(t, c.WaitForAPIReady(1))
}

func TestUploadFile_SendsMultipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "people.csv", header.Filename)

		buf := make([]byte, header.Size)
		_, err = io.ReadFull(file, buf)
		require.NoError(t, err)
		assert.Equal(t, "name,age\nAda,36\n", string(buf))

		json.NewEncoder(w).Encode(map[string]any{"file_id": "f1", "row_count": 1})
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	var result struct {
		FileID   string `json:"file_id"`
		RowCount int    `json:"row_count"`
	}
	err := c.UploadFile("/upload_csv", "file", "people.csv", strings.NewReader("name,age\nAda,36\n"), &result)
	require.NoError(t, err)
	assert.Equal(t, "f1", result.FileID)
	assert.Equal(t, 1, result.RowCount)
}
