package graphql

import (
	"fmt"
	"time"

	"postpulse/internal/domain/entity"
)

// DefaultMaxBodyBytes bounds how much of a response is read.
const DefaultMaxBodyBytes int64 = 10 << 20

// Config contains configuration for the GraphQL posts client.
type Config struct {
	// Endpoint is the WPGraphQL URL, e.g. https://cms.example.com/graphql
	Endpoint string

	// Timeout bounds a single HTTP attempt
	Timeout time.Duration

	// UserAgent is sent with every request
	UserAgent string

	// RequestsPerSecond and Burst configure the outbound token bucket.
	// RequestsPerSecond <= 0 disables limiting.
	RequestsPerSecond float64
	Burst             int

	// MaxBodyBytes caps the response body size
	MaxBodyBytes int64
}

// DefaultConfig returns the client defaults for endpoint.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:          endpoint,
		Timeout:           10 * time.Second,
		UserAgent:         "PostPulse/1.0",
		RequestsPerSecond: 2,
		Burst:             4,
		MaxBodyBytes:      DefaultMaxBodyBytes,
	}
}

// Validate checks the configuration before a client is built.
func (c Config) Validate() error {
	if err := entity.ValidateEndpoint(c.Endpoint); err != nil {
		return fmt.Errorf("graphql endpoint: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("graphql timeout must be positive, got %v", c.Timeout)
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("graphql burst must be at least 1 when rate limiting is enabled")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("graphql max body bytes cannot be negative")
	}
	return nil
}
