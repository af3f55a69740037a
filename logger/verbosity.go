package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels for the -v flag count.
const (
	VerbosityUser  = 0 // results, warnings and errors
	VerbosityInfo  = 1 // -v: + per-document outcomes
	VerbosityDebug = 2 // -vv: + per-statement results and matcher decisions
)

// VerbosityToLevel maps -v counts to zap levels.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LevelName returns a human-readable name for a verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "User"
	case verbosity == VerbosityInfo:
		return "Info (-v)"
	default:
		return "Debug (-vv)"
	}
}
