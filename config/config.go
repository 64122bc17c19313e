package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration
type Config struct {
	ListenAddr         string `json:"listen_addr"`
	StopTimeout        int    `json:"stop_timeout"`         // seconds
	DeletePollInterval int    `json:"delete_poll_interval"` // seconds
	DeletePollBudget   int    `json:"delete_poll_budget"`
	RunnerKeepAlive    int    `json:"runner_keep_alive"` // seconds
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:         ":8080",
		StopTimeout:        10,
		DeletePollInterval: 1,
		DeletePollBudget:   5,
		RunnerKeepAlive:    300,
	}
}

// LoadConfig loads configuration from a file or environment variables
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	// Load from file if provided
	if configPath != "" {
		if err := loadFromFile(&config, configPath); err != nil {
			return config, err
		}
	}

	// Override with environment variables
	overrideFromEnv(&config)

	return config, nil
}

// loadFromFile loads configuration from a JSON file
func loadFromFile(config *Config, path string) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(bytes, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// overrideFromEnv overrides configuration with environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv("DOCKHAND_LISTEN_ADDR"); val != "" {
		config.ListenAddr = ensurePortFormat(val)
	}

	if val := os.Getenv("DOCKHAND_STOP_TIMEOUT"); val != "" {
		if timeout, err := parseEnvInt(val); err == nil {
			config.StopTimeout = timeout
		}
	}

	if val := os.Getenv("DOCKHAND_DELETE_POLL_INTERVAL"); val != "" {
		if interval, err := parseEnvInt(val); err == nil {
			config.DeletePollInterval = interval
		}
	}

	if val := os.Getenv("DOCKHAND_DELETE_POLL_BUDGET"); val != "" {
		if budget, err := parseEnvInt(val); err == nil {
			config.DeletePollBudget = budget
		}
	}

	if val := os.Getenv("DOCKHAND_RUNNER_KEEP_ALIVE"); val != "" {
		if keepAlive, err := parseEnvInt(val); err == nil {
			config.RunnerKeepAlive = keepAlive
		}
	}
}

// ensurePortFormat ensures port is in the format ":8080"
func ensurePortFormat(port string) string {
	port = strings.TrimSpace(port)
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

// parseEnvInt parses an integer from an environment variable
func parseEnvInt(val string) (int, error) {
	var result int
	if _, err := fmt.Sscanf(val, "%d", &result); err != nil {
		return 0, err
	}
	return result, nil
}
