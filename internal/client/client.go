package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/devbm7/synthgen/internal/config"
	"github.com/devbm7/synthgen/internal/logger"
)

// APIClient handles all HTTP communication with the generation backend
type APIClient struct {
	config     *config.Config
	httpClient *http.Client
}

// NewAPIClient creates a new API client with the given configuration
func NewAPIClient(cfg *config.Config) *APIClient {
	return &APIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// BuildURL constructs a full URL for the given endpoint
func (c *APIClient) BuildURL(endpoint string) string {
	return fmt.Sprintf("%s%s", strings.TrimRight(c.config.BaseURL, "/"), endpoint)
}

// Get makes a GET request to the specified endpoint
func (c *APIClient) Get(endpoint string, result interface{}) error {
	return c.request(http.MethodGet, endpoint, nil, result)
}

// Post makes a POST request to the specified endpoint
func (c *APIClient) Post(endpoint string, body interface{}, result interface{}) error {
	return c.request(http.MethodPost, endpoint, body, result)
}

// Delete makes a DELETE request to the specified endpoint
func (c *APIClient) Delete(endpoint string, result interface{}) error {
	return c.request(http.MethodDelete, endpoint, nil, result)
}

// request is the core HTTP request method
func (c *APIClient) request(method, endpoint string, body interface{}, result interface{}) error {
	url := c.BuildURL(endpoint)
	start := time.Now()
	logger.Debug("Starting %s request to %s", method, url)

	var requestBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		requestBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, requestBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, start, result)
}

// UploadFile makes a multipart POST request with a single file field
func (c *APIClient) UploadFile(endpoint, fieldName, filename string, file io.Reader, result interface{}) error {
	url := c.BuildURL(endpoint)
	start := time.Now()
	logger.Debug("Starting multipart upload of %s to %s", filename, url)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return fmt.Errorf("error creating multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("error writing file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error finalizing multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, start, result)
}

// do executes a prepared request and decodes the response into result
func (c *APIClient) do(req *http.Request, start time.Time, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		logger.Error("Request failed after (%s) %v: %v", req.URL, elapsed, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	logger.Debug("Request to %s completed in %v with status %d", req.URL, elapsed, resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("%s: HTTP error %d: %s", req.URL, resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			logger.Error("%s: Error decoding response: %v", req.URL, err)
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// Ping checks if the API is reachable
func (c *APIClient) Ping() error {
	url := c.BuildURL("/tasks")
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed with status %d", resp.StatusCode)
	}

	return nil
}

// WaitForAPIReady waits for the API to become ready
func (c *APIClient) WaitForAPIReady(maxAttempts int) bool {
	logger.Info("Checking API readiness...")

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logger.Debug("Checking API readiness (attempt %d/%d)...", attempt, maxAttempts)

		if err := c.Ping(); err == nil {
			logger.Info("API is ready!")
			return true
		}

		if attempt < maxAttempts {
			time.Sleep(time.Second)
		}
	}

	logger.Error("API failed to become ready after %d attempts", maxAttempts)
	return false
}
