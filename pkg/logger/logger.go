package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

type LevelBasedMuxHandler struct {
	stdoutHandler slog.Handler
	fileHandler   slog.Handler
}

type LoggerWithFile struct {
	Logger  *slog.Logger
	LogFile *os.File
}

func NewLevelBasedMuxHandler(stdout, file io.Writer, level slog.Level) *LevelBasedMuxHandler {
	return &LevelBasedMuxHandler{

		stdoutHandler: slog.NewJSONHandler(stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: false,
		}),

		// file keeps Info and above regardless of the console level
		fileHandler: slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:     max(level, slog.LevelInfo),
			AddSource: true,
		}),
	}
}

func (h *LevelBasedMuxHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stdoutHandler.Enabled(ctx, level) || h.fileHandler.Enabled(ctx, level)
}

func (h *LevelBasedMuxHandler) Handle(ctx context.Context, r slog.Record) error {

	if h.fileHandler.Enabled(ctx, r.Level) {
		if err := h.fileHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if h.stdoutHandler.Enabled(ctx, r.Level) {
		return h.stdoutHandler.Handle(ctx, r)
	}
	return nil
}

func (h *LevelBasedMuxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelBasedMuxHandler{
		stdoutHandler: h.stdoutHandler.WithAttrs(attrs),
		fileHandler:   h.fileHandler.WithAttrs(attrs),
	}
}

func (h *LevelBasedMuxHandler) WithGroup(name string) slog.Handler {
	return &LevelBasedMuxHandler{
		stdoutHandler: h.stdoutHandler.WithGroup(name),
		fileHandler:   h.fileHandler.WithGroup(name),
	}
}

// ParseLevel понимает debug, info, warn, error; все остальное считается info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewLoggerWithFile(fileName string, level slog.Level) *LoggerWithFile {
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("не удалось открыть файл логов: %v", err)
	}

	handler := NewLevelBasedMuxHandler(os.Stdout, logFile, level)
	return &LoggerWithFile{
		Logger:  slog.New(handler),
		LogFile: logFile,
	}
}
