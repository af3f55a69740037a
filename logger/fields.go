package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
const (
	FieldSymbol  = "symbol"
	FieldRunID   = "run_id"
	FieldRefID   = "ref_id"
	FieldFile    = "file"
	FieldOutcome = "outcome"
	FieldCount   = "count"
	FieldError   = "error"

	FieldStatement = "statement"
	FieldLocal     = "local"
	FieldKind      = "kind"
	FieldEventaID  = "eventa_id"
	FieldEventID   = "event_id"
	FieldConf      = "conf"

	FieldDurationMS = "duration_ms"
)

type contextKey string

const (
	runIDKey contextKey = "logger_run_id"
	refIDKey contextKey = "logger_ref_id"
)

// WithRunID adds an ingest run id to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithRefID adds the reference being processed to the context for logging
func WithRefID(ctx context.Context, refID int64) context.Context {
	return context.WithValue(ctx, refIDKey, refID)
}

// FieldsFromContext extracts logging fields from context as key-value pairs.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if refID, ok := ctx.Value(refIDKey).(int64); ok && refID != 0 {
		fields = append(fields, FieldRefID, refID)
	}
	return fields
}

// FromContext decorates base with the fields carried by ctx.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named child of the global logger.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
