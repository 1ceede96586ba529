package engine

import "github.com/driftgate/driftgate/internal/model"

// Classify combines per-evidence outcomes into one drift state. The
// computation is a pure function of the evidence results, deterministic
// for a given source tree and ledger.
//
// Contradiction has the highest priority regardless of match counts.
// A claim whose evidence is all optional cannot be missing: advisory-only
// evidence defaults permissively to ok.
func Classify(evidence []model.EvidenceResult) (model.DriftState, string) {
	requiredTotal := 0
	requiredMatched := 0
	contradicted := false
	reason := ""

	for _, result := range evidence {
		if result.Required {
			requiredTotal++
			if result.Matched {
				requiredMatched++
			}
		}
		if result.Contradicted && !contradicted {
			contradicted = true
			reason = result.ContradictionReason
		}
	}

	switch {
	case contradicted:
		return model.StateContradicted, reason
	case requiredTotal > 0 && requiredMatched == 0:
		return model.StateMissing, ""
	case requiredMatched < requiredTotal:
		return model.StatePartial, ""
	default:
		return model.StateOK, ""
	}
}
