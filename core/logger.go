package core

// Logger is any service that can report application events and errors.
// Implementations may ship them to an external tracker (see services/logger).
type Logger interface {
	Enable(enabled bool)
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
