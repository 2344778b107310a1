package model

import (
	"github.com/pkg/errors"
)

// Configuration errors are fatal to the call that carries them; the
// engine never falls back to defaults silently. Data-level problems
// (schema violations, orphan references) are returned alongside data
// instead.
var (
	ErrStrictValidation       = errors.New("table rejected in strict mode")
	ErrUnknownAttributionType = errors.New("unknown attribution model")
	ErrInvalidHalfLife        = errors.New("time decay half life must be positive")
	ErrInvalidScoreWeights    = errors.New("score weights must be non-negative with a positive sum")
	ErrInvalidBaseline        = errors.New("organic conversion rate must be within [0, 1]")
)

// checkStrict rejects the table when strict mode is requested and any
// violation was found.
func checkStrict(result *ValidationResult, strict bool) error {
	if strict && !result.IsValid() {
		return errors.Wrapf(ErrStrictValidation, "%d violation(s) on %s", len(result.Violations), result.Kind)
	}
	return nil
}

// hasMissingColumn reports whether a whole required column is absent,
// in which case no row of the table is loadable.
func hasMissingColumn(result *ValidationResult) bool {
	for _, v := range result.Violations {
		if v.Reason == ViolationMissingColumn {
			return true
		}
	}
	return false
}
