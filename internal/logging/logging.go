package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "EVENTS_LOG_LEVEL"
	EnvLogNoColor = "EVENTS_LOG_NOCOLOR"
	EnvLogJSON    = "EVENTS_LOG_JSON"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type config struct {
	level   zerolog.Level
	noColor bool
	json    bool
}

// ConfigureRuntime returns the logger used by the binaries.
func ConfigureRuntime() zerolog.Logger {
	return New(ProfileRuntime, os.Stderr)
}

// ConfigureTests returns a quiet logger for test runs; EVENTS_LOG_LEVEL still applies.
func ConfigureTests() zerolog.Logger {
	return New(ProfileTest, os.Stderr)
}

// New builds a logger for profile writing to w, with env overrides applied.
func New(profile Profile, w io.Writer) zerolog.Logger {
	cfg := defaultConfig(profile)
	applyEnvOverrides(&cfg)

	out := w
	if !cfg.json {
		out = zerolog.ConsoleWriter{Out: w, NoColor: cfg.noColor, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(cfg.level).With().Timestamp().Logger()
}

func defaultConfig(profile Profile) config {
	switch profile {
	case ProfileTest:
		return config{level: zerolog.Disabled, noColor: true}
	default:
		return config{level: zerolog.InfoLevel}
	}
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.noColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		cfg.json = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
