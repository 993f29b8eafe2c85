package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the application logger and installs it as the slog default.
// The TUI owns the terminal, so the logger writes to a rotated file unless
// toConsole is set (used by the one-shot CLI commands with --log-level).
func InitLogger(cfg *LoggingConfig, toConsole bool) (*slog.Logger, error) {
	level := parseLogLevel(cfg.Level)

	var writer io.Writer = os.Stderr
	if !toConsole {
		if cfg.File == "" {
			cfg.File = filepath.Join(getStateDir(), "enjoi", "enjoi.log")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch {
	case strings.EqualFold(cfg.Format, "json"):
		handler = slog.NewJSONHandler(writer, handlerOpts)
	case cfg.Color && toConsole:
		handler = NewColoredTextHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[90m",
	slog.LevelInfo:  "\033[32m",
	slog.LevelWarn:  "\033[33m",
	slog.LevelError: "\033[31m",
}

// ColoredTextHandler renders records with slog's text format and colors the
// leading time/level field by severity
type ColoredTextHandler struct {
	handler slog.Handler
	writer  io.Writer
	opts    *slog.HandlerOptions
	attrs   []slog.Attr
	groups  []string
}

// NewColoredTextHandler creates a handler for console output
func NewColoredTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredTextHandler {
	return &ColoredTextHandler{
		handler: slog.NewTextHandler(w, opts),
		writer:  w,
		opts:    opts,
	}
}

// Handle implements slog.Handler
func (h *ColoredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf strings.Builder
	var inner slog.Handler = slog.NewTextHandler(&buf, h.opts)
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	for _, g := range h.groups {
		inner = inner.WithGroup(g)
	}
	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	_, err := io.WriteString(h.writer, colorize(buf.String(), r.Level))
	return err
}

func colorize(line string, level slog.Level) string {
	code, ok := levelColors[level]
	if !ok {
		return line
	}

	head, rest, found := strings.Cut(line, " ")
	if !found {
		return code + line + "\033[0m"
	}
	return code + head + "\033[0m " + rest
}

// WithAttrs implements slog.Handler
func (h *ColoredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.handler = h.handler.WithAttrs(attrs)
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup implements slog.Handler
func (h *ColoredTextHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.handler = h.handler.WithGroup(name)
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

// Enabled implements slog.Handler
func (h *ColoredTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
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
