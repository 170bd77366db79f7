package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API settings
	BaseURL        string
	RequestTimeout time.Duration

	// Polling settings
	PollInterval    time.Duration
	MaxPollAttempts int

	// Generation defaults
	Provider  string
	Model     string
	Rows      int
	BatchSize int
	Parallel  bool

	// Local staging directory for exported artifacts
	DataDir string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:8000",
		RequestTimeout:  30 * time.Second,
		PollInterval:    3 * time.Second,
		MaxPollAttempts: 0,
		Provider:        "ollama",
		Model:           "gemma3:latest",
		Rows:            10,
		BatchSize:       10,
		DataDir:         "data",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if baseURL := os.Getenv("SYNTHGEN_API_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}

	if dataDir := os.Getenv("SYNTHGEN_DATA_DIR"); dataDir != "" {
		c.DataDir = dataDir
	}

	if interval := os.Getenv("SYNTHGEN_POLL_INTERVAL_MS"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil {
			c.PollInterval = time.Duration(i) * time.Millisecond
		}
	}

	if attempts := os.Getenv("SYNTHGEN_MAX_POLL_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			c.MaxPollAttempts = a
		}
	}

	if provider := os.Getenv("SYNTHGEN_PROVIDER"); provider != "" {
		c.Provider = provider
	}

	if model := os.Getenv("SYNTHGEN_MODEL"); model != "" {
		c.Model = model
	}

	if batchSize := os.Getenv("SYNTHGEN_BATCH_SIZE"); batchSize != "" {
		if b, err := strconv.Atoi(batchSize); err == nil {
			c.BatchSize = b
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.BaseURL, err)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got: %v", c.PollInterval)
	}

	if c.MaxPollAttempts < 0 {
		return fmt.Errorf("max poll attempts must be non-negative, got: %d", c.MaxPollAttempts)
	}

	if c.Rows < 1 {
		return fmt.Errorf("rows must be at least 1, got: %d", c.Rows)
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got: %d", c.BatchSize)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	return nil
}
