package errors

import (
	"os"

	"github.com/charmbracelet/log"
)

// LogHandler is a Handler that writes structured log records.
type LogHandler struct {
	// Verbose enables stack traces in the output.
	Verbose bool

	logger *log.Logger
}

// NewLogHandler returns a handler logging to stderr with the "stencil"
// prefix.
func NewLogHandler() *LogHandler {
	return &LogHandler{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          "stencil",
			ReportTimestamp: true,
		}),
	}
}

// WithLogger returns a copy of the handler writing through the given
// logger.
func (h *LogHandler) WithLogger(logger *log.Logger) *LogHandler {
	copied := *h
	copied.logger = logger
	return &copied
}

// HandleError logs an EngineError.
func (h *LogHandler) HandleError(err *EngineError) {
	if err == nil {
		return
	}
	logger := h.logger
	if logger == nil {
		logger = log.Default()
	}
	fields := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, "stack", err.StackTrace)
	}
	logger.Error("engine error", fields...)
}
