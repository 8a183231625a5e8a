// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Log formats accepted by MULTIMODEL_LOG_FORMAT.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Settings holds all application configuration.
type Settings struct {
	LLM     LLMConfig
	Log     LogConfig
	History HistoryConfig
}

// LLMConfig holds outbound provider client configuration.
type LLMConfig struct {
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string
}

// HistoryConfig locates the tool-call history database.
// An empty Path disables history.
type HistoryConfig struct {
	Path string
}

// Enabled reports whether call history should be recorded.
func (h HistoryConfig) Enabled() bool {
	return h.Path != ""
}

// New loads settings from environment variables.
// Returns an error if any variable holds an invalid value.
func New() (Settings, error) {
	timeoutSecs, err := getEnvInt("LLM_TIMEOUT_SECS", 30)
	if err != nil {
		return Settings{}, err
	}
	if timeoutSecs <= 0 {
		return Settings{}, fmt.Errorf("invalid value for LLM_TIMEOUT_SECS: must be positive, got %d", timeoutSecs)
	}

	connectSecs, err := getEnvInt("LLM_CONNECT_TIMEOUT_SECS", 10)
	if err != nil {
		return Settings{}, err
	}
	if connectSecs <= 0 {
		return Settings{}, fmt.Errorf("invalid value for LLM_CONNECT_TIMEOUT_SECS: must be positive, got %d", connectSecs)
	}

	format := strings.ToLower(getEnvString("MULTIMODEL_LOG_FORMAT", LogFormatText))
	if format != LogFormatText && format != LogFormatJSON {
		return Settings{}, fmt.Errorf("invalid value for MULTIMODEL_LOG_FORMAT: %q (want %q or %q)", format, LogFormatText, LogFormatJSON)
	}

	return Settings{
		LLM: LLMConfig{
			Timeout:        time.Duration(timeoutSecs) * time.Second,
			ConnectTimeout: time.Duration(connectSecs) * time.Second,
		},
		Log: LogConfig{
			Format: format,
		},
		History: HistoryConfig{
			Path: os.Getenv("MULTIMODEL_HISTORY_DB"),
		},
	}, nil
}

// Environment variable helpers with proper error handling

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}
