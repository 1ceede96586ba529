package model

import "time"

// DriftState is the classified relationship between a claim and the source tree
type DriftState string

const (
	StateOK           DriftState = "ok"           // All required evidence matched
	StatePartial      DriftState = "partial"      // Some, but not all, required evidence matched
	StateMissing      DriftState = "missing"      // No required evidence matched
	StateContradicted DriftState = "contradicted" // A contradiction rule matched
)

// AllStates lists the drift states in reporting order
func AllStates() []DriftState {
	return []DriftState{StateOK, StatePartial, StateMissing, StateContradicted}
}

// EvidenceResult is the per-evidence match outcome
type EvidenceResult struct {
	Path                string      `json:"path"`                  // Path as recorded in the ledger
	ResolvedPath        string      `json:"resolved_path"`         // Concrete path that was inspected
	MatcherType         MatcherType `json:"matcher_type"`
	Matcher             string      `json:"matcher"`
	Required            bool        `json:"required"`
	Matched             bool        `json:"matched"`
	Details             string      `json:"details,omitempty"`     // Human-readable diagnostic
	Contradicted        bool        `json:"contradicted"`          // Any attached contradiction rule matched
	ContradictionReason string      `json:"contradiction_reason,omitempty"`
}

// ClaimResult is the derived, read-only outcome for a single claim
type ClaimResult struct {
	ClaimID         string           `json:"claim_id"`
	Severity        Severity         `json:"severity"`
	Owner           string           `json:"owner,omitempty"`
	DeclaredStatus  DeclaredStatus   `json:"declared_status"`
	State           DriftState       `json:"state"`
	Blocking        bool             `json:"blocking"`
	OverrideApplied bool             `json:"override_applied"`
	OverrideReason  string           `json:"override_reason,omitempty"`
	Evidence        []EvidenceResult `json:"evidence"`
}

// Summary holds the run-level counts consumers gate on
type Summary struct {
	TotalClaims      int                `json:"total_claims"`
	ByState          map[DriftState]int `json:"by_state"`          // Counts for all four states, zero included
	BlockingClaims   int                `json:"blocking_claims"`   // > 0 under enforce mode means block
	OverridesApplied int                `json:"overrides_applied"`
}

// DriftReport is the complete output of one evaluation run
type DriftReport struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`   // report or enforce
	Strict      Severity      `json:"strict"` // Severity floor for blocking
	RepoRoot    string        `json:"repo_root"`
	GeneratedAt time.Time     `json:"generated_at"`
	DurationMS  int64         `json:"duration_ms"`
	Summary     Summary       `json:"summary"`
	Claims      []ClaimResult `json:"claims"` // Ledger order, always

	LLM *DigestSummary `json:"llm,omitempty"` // Optional digest, never affects the verdict
}

// DigestSummary contains the optional LLM-generated remediation digest.
// It is generated after gating and can never change a state or verdict.
type DigestSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictClaimIDs bool     `json:"strict_claim_ids"`      // Whether claim-id allowlisting was enforced
	DigestMD       string   `json:"digest_md,omitempty"`   // Markdown digest
	Warnings       []string `json:"warnings,omitempty"`    // e.g. claim-id leaks detected
}
