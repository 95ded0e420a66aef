package domain

// VertexStatus represents the lifecycle state of one expression's evaluation
// as reported to telemetry.
type VertexStatus string

const (
	// VertexStatusRunning indicates the expression is being evaluated live.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the evaluation finished.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the evaluation raised a captured error.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the result was replayed from cache.
	VertexStatusCached VertexStatus = "cached"
)

// IsTerminal checks if a status is a terminal state.
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard
// slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
