package domain

import "errors"

// Error taxonomy for the recommendation and comparison engines. Per-asset
// failures (data, factors, explanations) are recovered inside a run; the
// busy and invalid-comparison errors surface to the caller unchanged so it
// can react to each distinctly.
var (
	// ErrDataUnavailable means the upstream fetch for an asset failed or
	// returned nothing. The asset is excluded from the run.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInsufficientFactors means too few factors were computed to score the
	// asset. The asset is excluded from scoring, not from data collection.
	ErrInsufficientFactors = errors.New("insufficient factors present")

	// ErrExplanationUnavailable means the explanation call failed or timed
	// out. The score stands; the explanation stays absent.
	ErrExplanationUnavailable = errors.New("explanation unavailable")

	// ErrGenerationBusy means another generation run is already in flight.
	// Callers may retry with backoff.
	ErrGenerationBusy = errors.New("generation already in progress")

	// ErrInvalidComparison means the comparison request itself is malformed:
	// fewer than 2 or more than 10 codes, duplicates, or an unknown fund.
	ErrInvalidComparison = errors.New("invalid comparison request")

	// ErrNoSnapshot means no recommendation snapshot has been generated yet.
	ErrNoSnapshot = errors.New("no snapshot available")
)
