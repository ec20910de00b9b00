package creditengine

import "errors"

var (
	// ErrInsufficientData: no transactions, or a summary without any period.
	ErrInsufficientData = errors.New("insufficient cash flow data")
	// ErrInvalidSummary: a summary whose counters contradict each other.
	ErrInvalidSummary = errors.New("invalid cash flow summary")
	// ErrInvalidConfig: thresholds that cannot produce a sane decision.
	ErrInvalidConfig = errors.New("invalid engine config")
)
