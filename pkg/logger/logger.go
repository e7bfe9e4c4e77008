package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init configures the package logger. Production environments log JSON,
// everything else logs human readable text at debug level.
func Init(environment string) {
	var handler slog.Handler
	switch strings.ToLower(environment) {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// Logger exposes the underlying slog logger for components that take one.
func Logger() *slog.Logger {
	return log
}

func Debug(msg string, args ...any) {
	log.Log(context.Background(), slog.LevelDebug, msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Log(context.Background(), slog.LevelInfo, msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Log(context.Background(), slog.LevelWarn, msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Log(context.Background(), slog.LevelError, msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Log(context.Background(), slog.LevelError, msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets callers pass a bare error or value next to key/value
// pairs: logger.Error("failed", err) logs err under "detail".
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case slog.Attr:
			out = append(out, v)
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
				continue
			}
			out = append(out, slog.String("detail", v))
		case error:
			out = append(out, slog.String("detail", v.Error()))
		default:
			out = append(out, slog.String("detail", fmt.Sprint(v)))
		}
	}
	return out
}
