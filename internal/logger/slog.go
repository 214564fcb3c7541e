package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const redacted = "[REDACTED]"

// Attribute keys whose values never reach the log output
var sensitiveKeys = map[string]struct{}{
	"password":       {},
	"hashedpassword": {},
	"token":          {},
	"refreshtoken":   {},
	"authorization":  {},
	"apikey":         {},
	"secret":         {},
}

// slogLogger implementation of Logger interface based on slog
type slogLogger struct {
	logger *slog.Logger
}

// logWithSource reports the caller of Debug/Info/... as the source, not this wrapper
func (l *slogLogger) logWithSource(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = l.logger.Handler().Handle(ctx, record)
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logWithSource(slog.LevelDebug, msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logWithSource(slog.LevelInfo, msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logWithSource(slog.LevelWarn, msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logWithSource(slog.LevelError, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{logger: l.logger.WithGroup(name)}
}

// replaceAttr trims source file to its base name and hides credentials
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
		}
		return a
	}

	if isSensitive(a.Key) {
		return slog.String(a.Key, redacted)
	}

	return a
}

// Matches "password", "refresh_token", "X-Api-Key" and alike
func isSensitive(key string) bool {
	normalized := strings.TrimPrefix(strings.ToLower(key), "x-")
	normalized = strings.NewReplacer("_", "", "-", "").Replace(normalized)
	_, ok := sensitiveKeys[normalized]
	return ok
}
