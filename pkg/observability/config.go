// Package observability wires OpenTelemetry tracing and metrics together
// with slog structured logging for the coality CLI.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is an interactive command invocation.
	ModeCLI AppMode = "cli"
	// ModeBatch is a non-interactive run, e.g. from CI.
	ModeBatch AppMode = "batch"
)

const (
	defaultServiceName        = "coality"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export
	// and yields no-op providers.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the root trace sampling ratio. Zero samples everything.
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool
	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer

	ShutdownTimeoutSec int
}

// DefaultConfig returns a zero-export configuration logging at info level.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
