// Package config provides fail-open environment loaders, validators and
// configuration metrics shared by the postpulse binaries.
//
// Loaders never return errors. An unset variable yields the default; an
// unparseable or invalid one yields the default plus a warning the caller
// logs and counts.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigLoadResult is the outcome of loading one environment value.
//
//	result := LoadEnvDuration("CACHE_STALE_TIME", time.Minute, ValidatePositiveDuration)
//	for _, w := range result.Warnings {
//	    logger.Warn("configuration fallback", slog.String("warning", w))
//	}
//	staleTime := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
	// Set reports whether the variable was present and non-empty.
	Set bool
}

func fallback(envKey, raw string, reason interface{}, defaultValue interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value:           defaultValue,
		Warnings:        []string{fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, reason, defaultValue)},
		FallbackApplied: true,
		Set:             true,
	}
}

// LoadEnvString returns the variable, or defaultValue when unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(envKey))
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string and validates it. A nil validator
// accepts any value.
//
// Warning format:
//
//	"Invalid {envKey}='{value}': {error}, falling back to default '{default}'"
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := strings.TrimSpace(os.Getenv(envKey))
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, err, defaultValue)
		}
	}
	return ConfigLoadResult{Value: value, Set: true}
}

// LoadEnvDuration loads a Go duration string ("30s", "1h30m") and validates it.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(d); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return ConfigLoadResult{Value: d, Set: true}
}

// LoadEnvInt loads a base-10 integer and validates it.
// Decimals and embedded spaces are rejected.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, "invalid integer format", defaultValue)
	}
	if validator != nil {
		if err := validator(n); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return ConfigLoadResult{Value: n, Set: true}
}

// LoadEnvBool accepts the forms strconv.ParseBool does.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, "invalid boolean format, expected 'true' or 'false'", defaultValue)
	}
	return ConfigLoadResult{Value: b, Set: true}
}
