// Package logger builds the process-wide *slog.Logger from the configured
// level and environment.
package logger
