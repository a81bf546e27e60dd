package logger

import (
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	With(args ...interface{}) Logger
}

type slogLogger struct {
	log *slog.Logger
}

func New(level string) Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return &slogLogger{log: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *slogLogger) Debug(msg string, args ...interface{}) {
	l.log.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...interface{}) {
	l.log.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...interface{}) {
	l.log.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...interface{}) {
	l.log.Error(msg, args...)
}

func (l *slogLogger) Fatal(msg string, args ...interface{}) {
	l.log.Error(msg, args...)
	os.Exit(1)
}

func (l *slogLogger) With(args ...interface{}) Logger {
	return &slogLogger{log: l.log.With(args...)}
}
