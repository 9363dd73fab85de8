package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stitts-dev/sports-query-engine/internal/models"
)

type ErrorKind string

const (
	KindUnsupportedSport      ErrorKind = "UnsupportedSport"
	KindUnsupportedQueryType  ErrorKind = "UnsupportedQueryType"
	KindUnsupportedMetric     ErrorKind = "UnsupportedMetric"
	KindEntityNotFound        ErrorKind = "EntityNotFound"
	KindAmbiguousEntity       ErrorKind = "AmbiguousEntity"
	KindNoStatsAvailable      ErrorKind = "NoStatsAvailable"
	KindDataSourceUnavailable ErrorKind = "DataSourceUnavailable"
)

// QueryError is a structured failure. Batch handlers keep one per entity in
// the result's error map instead of aborting the request.
type QueryError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Entity  string    `json:"entity,omitempty"`

	// AmbiguousEntity
	BestGuess    *models.EntityCandidate  `json:"best_guess,omitempty"`
	Alternatives []models.EntityCandidate `json:"alternatives,omitempty"`
	Confidence   float64                  `json:"confidence,omitempty"`
	FollowUp     string                   `json:"follow_up,omitempty"`

	// NoStatsAvailable
	SeasonsAttempted []string `json:"seasons_attempted,omitempty"`
	Suggestion       string   `json:"suggestion,omitempty"`

	// DataSourceUnavailable
	Tier string `json:"tier,omitempty"`

	cause error
}

func (e *QueryError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.cause
}

// IsConfiguration reports whether the error is fatal to the whole request
// regardless of how many entities it names.
func (e *QueryError) IsConfiguration() bool {
	switch e.Kind {
	case KindUnsupportedSport, KindUnsupportedQueryType, KindUnsupportedMetric:
		return true
	}
	return false
}

// AsQueryError unwraps err to a *QueryError.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

// IsKind reports whether err is a QueryError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	qe, ok := AsQueryError(err)
	return ok && qe.Kind == kind
}

func ErrUnsupportedSport(sport string) *QueryError {
	return &QueryError{
		Kind:    KindUnsupportedSport,
		Message: fmt.Sprintf("sport %q is not supported", sport),
	}
}

func ErrUnsupportedQueryType(t QueryType) *QueryError {
	return &QueryError{
		Kind:    KindUnsupportedQueryType,
		Message: fmt.Sprintf("no handler registered for query type %q", t),
	}
}

func ErrUnsupportedMetric(sport string, metrics []string) *QueryError {
	return &QueryError{
		Kind:    KindUnsupportedMetric,
		Message: fmt.Sprintf("metric(s) %s not available for %s", strings.Join(metrics, ", "), sport),
	}
}

func ErrEntityNotFound(name string) *QueryError {
	return &QueryError{
		Kind:    KindEntityNotFound,
		Message: "no player or team matched this name",
		Entity:  name,
	}
}

func ErrAmbiguousEntity(name string, best models.EntityCandidate, alternatives []models.EntityCandidate, confidence float64) *QueryError {
	return &QueryError{
		Kind:         KindAmbiguousEntity,
		Message:      "multiple candidates match this name",
		Entity:       name,
		BestGuess:    &best,
		Alternatives: alternatives,
		Confidence:   confidence,
		FollowUp:     followUpQuestion(name, best, alternatives),
	}
}

func ErrNoStatsAvailable(name string, seasons []string) *QueryError {
	return &QueryError{
		Kind:             KindNoStatsAvailable,
		Message:          fmt.Sprintf("Player found but no stats available for seasons: %s", strings.Join(seasons, ", ")),
		Entity:           name,
		SeasonsAttempted: seasons,
		Suggestion:       "The player may be a rookie, injured, or not have recorded stats in these seasons.",
	}
}

func ErrDataSourceUnavailable(tier string, cause error) *QueryError {
	msg := fmt.Sprintf("%s data source is unavailable", tier)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &QueryError{
		Kind:    KindDataSourceUnavailable,
		Message: msg,
		Tier:    tier,
		cause:   cause,
	}
}

func followUpQuestion(name string, best models.EntityCandidate, alternatives []models.EntityCandidate) string {
	options := make([]string, 0, len(alternatives)+1)
	options = append(options, describeCandidate(best))
	for _, alt := range alternatives {
		options = append(options, describeCandidate(alt))
	}
	return fmt.Sprintf("I found multiple players named %q. Did you mean %s?", name, strings.Join(options, " or "))
}

func describeCandidate(c models.EntityCandidate) string {
	var details []string
	if c.Entity.Position != "" {
		details = append(details, c.Entity.Position)
	}
	if c.Entity.TeamName != "" {
		details = append(details, c.Entity.TeamName)
	}
	if len(details) == 0 {
		return c.Entity.Name
	}
	return fmt.Sprintf("%s (%s)", c.Entity.Name, strings.Join(details, ", "))
}
