// Package logging builds the per-stream slog loggers. Each stream's level
// is independently settable from the environment; stdout stays clean for
// the MCP transport, so everything goes to stderr.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Log streams with independently settable verbosity.
const (
	StreamServer   = "server"
	StreamMCP      = "mcp"
	StreamEngine   = "engine"
	StreamLauncher = "launcher"
)

// Environment variables controlling stream levels. LOG_LEVEL is the
// fallback for streams without their own setting.
const (
	EnvLevel         = "LOG_LEVEL"
	EnvServerLevel   = "SERVER_LOG_LEVEL"
	EnvMCPLevel      = "MCP_LOG_LEVEL"
	EnvEngineLevel   = "ENGINE_LOG_LEVEL"
	EnvLauncherLevel = "LAUNCHER_LOG_LEVEL"
)

var streamEnv = map[string]string{
	StreamServer:   EnvServerLevel,
	StreamMCP:      EnvMCPLevel,
	StreamEngine:   EnvEngineLevel,
	StreamLauncher: EnvLauncherLevel,
}

// ParseLevel converts a level name to a slog.Level, falling back to the
// given default on unknown values.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

// Set is a family of stream loggers sharing one output.
type Set struct {
	w      io.Writer
	base   slog.Level
	levels map[string]slog.Level
}

// New builds a Set writing to w. The lookup function supplies environment
// values (os.Getenv in production, a map lookup in tests).
func New(w io.Writer, lookup func(string) string) *Set {
	base := ParseLevel(lookup(EnvLevel), slog.LevelError)
	levels := make(map[string]slog.Level, len(streamEnv))
	for stream, env := range streamEnv {
		levels[stream] = ParseLevel(lookup(env), base)
	}
	return &Set{w: w, base: base, levels: levels}
}

// Logger returns the logger for a stream. Unknown streams get the base
// level.
func (s *Set) Logger(stream string) *slog.Logger {
	level, ok := s.levels[stream]
	if !ok {
		level = s.base
	}
	h := slog.NewTextHandler(s.w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("stream", stream)
}

// Level reports the effective level for a stream, mainly for tests.
func (s *Set) Level(stream string) slog.Level {
	if level, ok := s.levels[stream]; ok {
		return level
	}
	return s.base
}
