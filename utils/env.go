package utils

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func GetEnvVar(envVar string) (string, error) {
	value, found := os.LookupEnv(envVar)
	if !found || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("env var '%s' not specified", envVar)
	}
	return strings.TrimSpace(value), nil
}

// GetSecretEnvVar returns the value byte for byte. Surrounding spaces are
// part of a secret.
func GetSecretEnvVar(envVar string) (string, error) {
	value, found := os.LookupEnv(envVar)
	if !found || value == "" {
		return "", fmt.Errorf("env var '%s' not specified", envVar)
	}
	return value, nil
}

func GetEnvVarWithDefault(envVar, defaultValue string) string {
	value, found := os.LookupEnv(envVar)
	if !found || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

// GetEnvDuration parses values such as "24h" or "90m".
func GetEnvDuration(envVar string, defaultValue time.Duration) (time.Duration, error) {
	value := GetEnvVarWithDefault(envVar, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("env var '%s' is not a duration: %w", envVar, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("env var '%s' must be positive, got %s", envVar, value)
	}
	return d, nil
}

func GetEnvBool(envVar string) bool {
	switch strings.ToLower(GetEnvVarWithDefault(envVar, "")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
