// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-06
// Last Modified: 2026-03-10

// Package logging builds the structured logger: workflow commands inside
// GitHub Actions, text lines elsewhere, and optional Sentry forwarding.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// LevelEnvKey overrides the configured log level.
const LevelEnvKey = "ASANA_LINK_LOG_LEVEL"

// Config holds logging configuration.
type Config struct {
	Level     slog.Level
	SentryDSN string
	Env       string
	Version   string

	// Actions renders records as GitHub workflow commands.
	Actions bool

	// Output defaults to stderr, or stdout in Actions where the runner
	// parses workflow commands.
	Output io.Writer
}

var sentryEnabled bool

// New builds a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
		if cfg.Actions {
			out = os.Stdout
		}
	}

	var handler slog.Handler
	if cfg.Actions {
		handler = newActionsHandler(out, cfg.Level)
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     cfg.Version,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry init: %w", err)
		}
		sentryEnabled = true
		handler = &sentryHandler{Handler: handler}
	}

	return slog.New(handler), nil
}

// Init builds the logger and installs it as the slog default.
func Init(cfg Config) (*slog.Logger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// Flush delivers buffered Sentry events. Call before exiting.
func Flush(timeout time.Duration) {
	if sentryEnabled {
		sentry.Flush(timeout)
	}
}

// SelectLevel picks the raw level by precedence flag > env > config and
// names where it came from.
func SelectLevel(flagLevel, envLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(envLevel) != "" {
		return envLevel, "env"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return "", "default"
}

// ParseLevel parses a level name or number. Empty means info.
func ParseLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

// ResolveLevel applies SelectLevel and ParseLevel. An invalid flag value is
// an error; an invalid env or config value falls back to info with a warning.
func ResolveLevel(flagLevel, configLevel string) (slog.Level, string, error) {
	envLevel := os.Getenv(LevelEnvKey)
	raw, source := SelectLevel(flagLevel, envLevel, configLevel)
	level, err := ParseLevel(raw)
	if err == nil {
		return level, "", nil
	}
	switch source {
	case "flag":
		return slog.LevelInfo, "", fmt.Errorf("invalid --log-level %q", flagLevel)
	case "env":
		return slog.LevelInfo, fmt.Sprintf("invalid %s=%q; defaulting to info", LevelEnvKey, envLevel), nil
	default:
		return slog.LevelInfo, fmt.Sprintf("invalid log_level=%q; defaulting to info", configLevel), nil
	}
}

// Quiet returns a logger that writes nothing but still forwards errors to
// Sentry when l does.
func Quiet(l *slog.Logger) *slog.Logger {
	if h, ok := l.Handler().(*sentryHandler); ok {
		return slog.New(&sentryHandler{Handler: slog.DiscardHandler, attrs: h.attrs, group: h.group})
	}
	return slog.New(slog.DiscardHandler)
}

// sentryHandler wraps an slog.Handler and sends errors to Sentry. Attrs
// added through WithAttrs become tags; record attrs become extra data.
type sentryHandler struct {
	slog.Handler
	attrs []slog.Attr
	group string
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= slog.LevelError {
		sentry.CaptureEvent(h.event(r))
	}
	return nil
}

// Enabled lets error records through even when the wrapped handler drops
// them.
func (h *sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelError || h.Handler.Enabled(ctx, level)
}

func (h *sentryHandler) event(r slog.Record) *sentry.Event {
	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = r.Message
	event.Timestamp = r.Time

	for _, a := range h.attrs {
		event.Tags[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		event.Extra[qualify(h.group, a.Key)] = a.Value.String()
		return true
	})
	return event
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tags := append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		tags = append(tags, slog.Attr{Key: qualify(h.group, a.Key), Value: a.Value})
	}
	return &sentryHandler{
		Handler: h.Handler.WithAttrs(attrs),
		attrs:   tags,
		group:   h.group,
	}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &sentryHandler{
		Handler: h.Handler.WithGroup(name),
		attrs:   h.attrs,
		group:   qualify(h.group, name),
	}
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}
