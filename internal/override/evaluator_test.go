package override

import (
	"testing"
	"time"

	"github.com/driftgate/driftgate/internal/model"
)

var now = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func wellFormed() model.OverrideRecord {
	return model.OverrideRecord{
		ClaimID:    "claim-42",
		Ticket:     "DRIFT-101",
		Reason:     "feature behind rollout flag until Q4",
		ApprovedBy: "@release-captain",
		CreatedAt:  "2026-08-01",
		ExpiresAt:  "2026-09-15",
	}
}

func TestEvaluator_IsValid_WellFormed(t *testing.T) {
	e := NewEvaluator(model.OverridePolicy{MaxTTLDays: 90}, now)

	if !e.IsValid(wellFormed()) {
		t.Error("Expected well-formed override to be valid")
	}
}

func TestEvaluator_IsValid_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.OverrideRecord)
	}{
		{name: "missing ticket", mutate: func(r *model.OverrideRecord) { r.Ticket = " " }},
		{name: "missing reason", mutate: func(r *model.OverrideRecord) { r.Reason = "" }},
		{name: "missing approver", mutate: func(r *model.OverrideRecord) { r.ApprovedBy = "" }},
		{name: "missing created_at fails closed", mutate: func(r *model.OverrideRecord) { r.CreatedAt = "" }},
		{name: "garbage created_at", mutate: func(r *model.OverrideRecord) { r.CreatedAt = "soon" }},
		{name: "garbage expires_at", mutate: func(r *model.OverrideRecord) { r.ExpiresAt = "never" }},
		{name: "expired", mutate: func(r *model.OverrideRecord) { r.CreatedAt = "2026-05-01"; r.ExpiresAt = "2026-06-01" }},
		{name: "expires before created", mutate: func(r *model.OverrideRecord) { r.CreatedAt = "2026-09-20"; r.ExpiresAt = "2026-09-10" }},
		{name: "ttl over cap", mutate: func(r *model.OverrideRecord) { r.CreatedAt = "2026-06-01"; r.ExpiresAt = "2026-12-01" }},
	}

	e := NewEvaluator(model.OverridePolicy{MaxTTLDays: 90}, now)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := wellFormed()
			tt.mutate(&record)
			if e.IsValid(record) {
				t.Error("Expected override to be rejected")
			}
		})
	}
}

func TestEvaluator_ExpiredNeverSuppresses(t *testing.T) {
	// Property from the gate: an override with expires_at in the past
	// never suppresses, even if otherwise well-formed
	record := wellFormed()
	record.CreatedAt = "2026-01-01"
	record.ExpiresAt = "2026-02-01"

	e := NewEvaluator(model.OverridePolicy{MaxTTLDays: 90}, now)
	valid := e.FilterValid([]model.OverrideRecord{record})

	if suppression := ActiveSuppression("claim-42", valid); suppression != nil {
		t.Error("Expected expired override to never suppress")
	}
}

func TestEvaluator_ApproverAllowList(t *testing.T) {
	policy := model.OverridePolicy{
		MaxTTLDays:       90,
		AllowedApprovers: []string{"Release-Captain", "@sec-lead"},
	}
	e := NewEvaluator(policy, now)

	tests := []struct {
		approver string
		want     bool
	}{
		{approver: "@release-captain", want: true}, // Normalized match
		{approver: "RELEASE-CAPTAIN", want: true},  // Case and @ insensitive
		{approver: "@sec-lead", want: true},
		{approver: "@random-dev", want: false},
	}

	for _, tt := range tests {
		record := wellFormed()
		record.ApprovedBy = tt.approver
		if got := e.IsValid(record); got != tt.want {
			t.Errorf("Approver %q: expected valid=%v, got %v", tt.approver, tt.want, got)
		}
	}
}

func TestEvaluator_AllowListDisabledWhenEmpty(t *testing.T) {
	e := NewEvaluator(model.OverridePolicy{MaxTTLDays: 90}, now)

	record := wellFormed()
	record.ApprovedBy = "anyone-at-all"
	if !e.IsValid(record) {
		t.Error("Expected any approver to pass when allow-listing is disabled")
	}
}

func TestActiveSuppression_FirstMatch(t *testing.T) {
	first := wellFormed()
	first.Reason = "first"
	second := wellFormed()
	second.Reason = "second"
	other := wellFormed()
	other.ClaimID = "claim-7"

	suppression := ActiveSuppression("claim-42", []model.OverrideRecord{other, first, second})
	if suppression == nil {
		t.Fatal("Expected a suppression")
	}
	if suppression.Reason != "first" {
		t.Errorf("Expected first matching override, got reason %q", suppression.Reason)
	}

	if ActiveSuppression("claim-404", []model.OverrideRecord{first}) != nil {
		t.Error("Expected nil for claim with no override")
	}
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "@alice"},
		{in: "@alice", want: "@alice"},
		{in: "  @@Bob  ", want: "@bob"},
	}

	for _, tt := range tests {
		if got := NormalizeHandle(tt.in); got != tt.want {
			t.Errorf("NormalizeHandle(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	if _, err := ParseTimestamp("2026-08-25"); err != nil {
		t.Errorf("Expected date-only timestamp to parse, got %v", err)
	}
	if _, err := ParseTimestamp("2026-08-25T10:00:00Z"); err != nil {
		t.Errorf("Expected RFC 3339 timestamp to parse, got %v", err)
	}
	if _, err := ParseTimestamp(""); err == nil {
		t.Error("Expected empty timestamp to fail")
	}
}

func TestEvaluator_ExpiryEqualToNowIsValid(t *testing.T) {
	record := wellFormed()
	record.CreatedAt = "2026-08-01T00:00:00Z"
	record.ExpiresAt = now.Format(time.RFC3339)

	e := NewEvaluator(model.OverridePolicy{MaxTTLDays: 90}, now)
	if !e.IsValid(record) {
		t.Error("Expected expires_at == now to still be valid")
	}
}
