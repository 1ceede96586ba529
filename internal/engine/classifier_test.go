package engine

import (
	"testing"

	"github.com/driftgate/driftgate/internal/model"
)

func evidence(required, matched bool) model.EvidenceResult {
	return model.EvidenceResult{Required: required, Matched: matched}
}

func contradicted(reason string) model.EvidenceResult {
	return model.EvidenceResult{Required: true, Matched: true, Contradicted: true, ContradictionReason: reason}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		evidence  []model.EvidenceResult
		wantState model.DriftState
	}{
		{
			name:      "all required matched",
			evidence:  []model.EvidenceResult{evidence(true, true), evidence(true, true)},
			wantState: model.StateOK,
		},
		{
			name:      "some required matched",
			evidence:  []model.EvidenceResult{evidence(true, true), evidence(true, false)},
			wantState: model.StatePartial,
		},
		{
			name:      "no required matched",
			evidence:  []model.EvidenceResult{evidence(true, false), evidence(true, false)},
			wantState: model.StateMissing,
		},
		{
			name:      "optional matches do not rescue missing",
			evidence:  []model.EvidenceResult{evidence(true, false), evidence(false, true)},
			wantState: model.StateMissing,
		},
		{
			name:      "all optional is ok regardless of matches",
			evidence:  []model.EvidenceResult{evidence(false, false), evidence(false, false)},
			wantState: model.StateOK,
		},
		{
			name:      "contradiction dominates ok",
			evidence:  []model.EvidenceResult{contradicted("feature was removed")},
			wantState: model.StateContradicted,
		},
		{
			name:      "contradiction dominates missing",
			evidence:  []model.EvidenceResult{evidence(true, false), contradicted("flag disabled")},
			wantState: model.StateContradicted,
		},
		{
			name:      "no evidence results",
			evidence:  nil,
			wantState: model.StateOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := Classify(tt.evidence)
			if state != tt.wantState {
				t.Errorf("Expected state %q, got %q", tt.wantState, state)
			}
		})
	}
}

func TestClassify_ContradictionReason(t *testing.T) {
	state, reason := Classify([]model.EvidenceResult{
		evidence(true, true),
		contradicted("endpoint deleted in v2"),
		contradicted("second reason, ignored"),
	})

	if state != model.StateContradicted {
		t.Fatalf("Expected contradicted, got %q", state)
	}
	if reason != "endpoint deleted in v2" {
		t.Errorf("Expected first contradiction reason recorded, got %q", reason)
	}
}

func TestClassify_ZeroRequiredNeverMissing(t *testing.T) {
	// Property: requiredTotal == 0 implies state != missing
	combos := [][]model.EvidenceResult{
		{},
		{evidence(false, false)},
		{evidence(false, true)},
		{evidence(false, true), evidence(false, false)},
	}

	for _, combo := range combos {
		if state, _ := Classify(combo); state == model.StateMissing {
			t.Errorf("Claim with zero required specs classified as missing: %+v", combo)
		}
	}
}
