package utils

import (
	"fmt"
)

type AppError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	Context interface{} `json:"context,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext attaches a structured payload (alternatives, attempted seasons, ...).
func (e *AppError) WithContext(ctx interface{}) *AppError {
	e.Context = ctx
	return e
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeInternal              = "INTERNAL_ERROR"
	ErrCodeUnsupportedSport      = "UNSUPPORTED_SPORT"
	ErrCodeUnsupportedQueryType  = "UNSUPPORTED_QUERY_TYPE"
	ErrCodeUnsupportedMetric     = "UNSUPPORTED_METRIC"
	ErrCodeEntityNotFound        = "ENTITY_NOT_FOUND"
	ErrCodeAmbiguousEntity       = "AMBIGUOUS_ENTITY"
	ErrCodeNoStatsAvailable      = "NO_STATS_AVAILABLE"
	ErrCodeDataSourceUnavailable = "DATA_SOURCE_UNAVAILABLE"
)
