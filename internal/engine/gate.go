package engine

import "github.com/driftgate/driftgate/internal/model"

// Blocking decides whether a single claim blocks the pipeline. All four
// conditions must hold: enforce mode, a missing or contradicted state,
// severity at or above the strict floor, and no active override. Report
// mode never blocks.
func Blocking(severity model.Severity, state model.DriftState, mode string, strict model.Severity, overridden bool) bool {
	if mode != model.ModeEnforce {
		return false
	}
	if state != model.StateMissing && state != model.StateContradicted {
		return false
	}
	if severity.Rank() < strict.Rank() {
		return false
	}
	return !overridden
}
