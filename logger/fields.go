package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across qsfdecode.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"

	// Survey domain
	FieldSurveyID     = "survey_id"
	FieldSurveyName   = "survey_name"
	FieldQuestionID   = "question_id"
	FieldExportTag    = "export_tag"
	FieldQuestionType = "question_type"
	FieldVariable     = "variable"
	FieldBlockID      = "block_id"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldAttempt    = "attempt"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"

	// Files and network
	FieldFile   = "file"
	FieldURL    = "url"
	FieldStatus = "status"
)

type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	surveyIDKey  contextKey = "logger_survey_id"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithSurveyID adds the survey being processed to the context for logging
func WithSurveyID(ctx context.Context, surveyID string) context.Context {
	return context.WithValue(ctx, surveyIDKey, surveyID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if surveyID, ok := ctx.Value(surveyIDKey).(string); ok && surveyID != "" {
		fields = append(fields, FieldSurveyID, surveyID)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	client, err := qualtrics.NewClient(cfg, qualtrics.WithLogger(logger.ComponentLogger("qualtrics")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
