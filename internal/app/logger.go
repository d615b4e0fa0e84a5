package app

import (
	"io"
	"log/slog"
)

// logLevels maps the accepted log-level config values onto slog levels.
// cli.Parse validates the value before it reaches here, so an unknown
// string only appears when App is constructed programmatically; those fall
// back to info.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the run's logger from the app configuration, writing to
// the same stream the mission result goes to. The logger is scoped to this
// App instance rather than installed as the process default, so embedded
// and test uses stay isolated.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
