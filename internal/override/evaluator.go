package override

import (
	"fmt"
	"strings"
	"time"

	"github.com/driftgate/driftgate/internal/model"
)

// Evaluator applies the override governance policy. Rejected overrides
// are excluded silently, never raised as errors: a bad override fails
// closed rather than aborting the run.
type Evaluator struct {
	policy  model.OverridePolicy
	now     time.Time
	allowed map[string]bool // Normalized @handles, nil when allow-listing is disabled
}

// NewEvaluator creates an evaluator for a single run, pinned to now
func NewEvaluator(policy model.OverridePolicy, now time.Time) *Evaluator {
	e := &Evaluator{policy: policy, now: now}
	if len(policy.AllowedApprovers) > 0 {
		e.allowed = make(map[string]bool, len(policy.AllowedApprovers))
		for _, approver := range policy.AllowedApprovers {
			e.allowed[NormalizeHandle(approver)] = true
		}
	}
	return e
}

// IsValid reports whether an override may suppress a verdict under the
// governance policy
func (e *Evaluator) IsValid(record model.OverrideRecord) bool {
	_, err := e.Check(record)
	return err == nil
}

// Check validates a single override and returns the rejection reason, if
// any. Used by IsValid and by the overrides listing command.
func (e *Evaluator) Check(record model.OverrideRecord) (status string, err error) {
	if strings.TrimSpace(record.Ticket) == "" {
		return "rejected", fmt.Errorf("missing ticket")
	}
	if strings.TrimSpace(record.Reason) == "" {
		return "rejected", fmt.Errorf("missing reason")
	}
	if strings.TrimSpace(record.ApprovedBy) == "" {
		return "rejected", fmt.Errorf("missing approved_by")
	}

	// The TTL cap is computed from created_at, so the policy requires it
	// even though the schema layer treats the field as optional.
	created, perr := ParseTimestamp(record.CreatedAt)
	if perr != nil {
		return "rejected", fmt.Errorf("invalid created_at %q", record.CreatedAt)
	}
	expires, perr := ParseTimestamp(record.ExpiresAt)
	if perr != nil {
		return "rejected", fmt.Errorf("invalid expires_at %q", record.ExpiresAt)
	}

	if expires.Before(e.now) {
		return "expired", fmt.Errorf("expired at %s", record.ExpiresAt)
	}
	if !expires.After(created) {
		return "rejected", fmt.Errorf("expires_at must be after created_at")
	}
	if e.policy.MaxTTLDays > 0 {
		ttlDays := expires.Sub(created).Hours() / 24
		if ttlDays > float64(e.policy.MaxTTLDays) {
			return "rejected", fmt.Errorf("ttl %.0f days exceeds maximum %d", ttlDays, e.policy.MaxTTLDays)
		}
	}

	if e.allowed != nil && !e.allowed[NormalizeHandle(record.ApprovedBy)] {
		return "rejected", fmt.Errorf("approver %s not in allow-list", NormalizeHandle(record.ApprovedBy))
	}

	return "active", nil
}

// FilterValid returns the overrides that pass governance, in input order
func (e *Evaluator) FilterValid(records []model.OverrideRecord) []model.OverrideRecord {
	valid := make([]model.OverrideRecord, 0, len(records))
	for _, record := range records {
		if e.IsValid(record) {
			valid = append(valid, record)
		}
	}
	return valid
}

// ActiveSuppression returns the first valid override targeting the claim,
// or nil. A matching override fully suppresses the blocking verdict for
// that claim regardless of state.
func ActiveSuppression(claimID string, valid []model.OverrideRecord) *model.OverrideRecord {
	for i := range valid {
		if valid[i].ClaimID == claimID {
			return &valid[i]
		}
	}
	return nil
}

// NormalizeHandle canonicalizes an approver to @handle form: trimmed,
// lower-cased, single leading @
func NormalizeHandle(approver string) string {
	handle := strings.ToLower(strings.TrimSpace(approver))
	handle = strings.TrimLeft(handle, "@")
	return "@" + handle
}

// ParseTimestamp accepts RFC 3339 or bare YYYY-MM-DD timestamps
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}
