package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// sensitiveKeys are attribute names whose values must never reach a sink.
var sensitiveKeys = map[string]bool{
	"token":              true,
	"password":           true,
	"reset_token":        true,
	"verification_token": true,
	"session_token":      true,
	"authorization":      true,
	"cookie":             true,
}

const redacted = "[REDACTED]"

// Setup installs a JSON logger on stdout as the slog default and returns its handler.
func Setup(level string) slog.Handler {
	handler := NewJSONHandler(os.Stdout, level)
	slog.SetDefault(slog.New(handler))
	return handler
}

func NewJSONHandler(w io.Writer, level string) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr { return Redact(a) },
	})
}

func ParseLevel(level string) slog.Level {
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

// Redact blanks the value of sensitive attributes.
func Redact(a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}
