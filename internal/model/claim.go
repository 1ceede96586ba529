package model

import "strings"

// DeclaredStatus is the status a claim asserts about itself
type DeclaredStatus string

const (
	StatusImplemented DeclaredStatus = "implemented"
	StatusPartial     DeclaredStatus = "partial"
	StatusPlanned     DeclaredStatus = "planned"
	StatusDeprecated  DeclaredStatus = "deprecated"
)

// Severity classifies how much an unsupported claim matters
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the numeric ordering used by the gate (higher blocks more)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the severity is one of the four known values
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// MatcherType selects the evidence matching strategy for a spec.
// The set is closed on purpose: the ledger's evidentiary vocabulary
// stays auditable.
type MatcherType string

const (
	MatcherASTExport       MatcherType = "ast_export"
	MatcherASTFunctionCall MatcherType = "ast_function_call"
	MatcherASTRouteHandler MatcherType = "ast_route_handler"
	MatcherASTWorkflowStep MatcherType = "ast_workflow_step"
	MatcherRegex           MatcherType = "regex"
	MatcherMarkerTag       MatcherType = "marker_tag"
)

// IsAST reports whether the matcher belongs to the AST family
func (t MatcherType) IsAST() bool {
	return strings.HasPrefix(string(t), "ast_")
}

// Known reports whether the matcher type is part of the closed set
func (t MatcherType) Known() bool {
	switch t {
	case MatcherASTExport, MatcherASTFunctionCall, MatcherASTRouteHandler,
		MatcherASTWorkflowStep, MatcherRegex, MatcherMarkerTag:
		return true
	}
	return false
}

// ContradictionSpec is a rule that, when matched, proves the claim is
// actively false rather than merely unsupported
type ContradictionSpec struct {
	MatcherType MatcherType `json:"matcher_type" yaml:"matcher_type"`
	Matcher     string      `json:"matcher" yaml:"matcher"`
	Reason      string      `json:"reason" yaml:"reason"`
}

// EvidenceSpec describes where and how to verify a claim is backed by code
type EvidenceSpec struct {
	Path          string              `json:"path" yaml:"path"`                                       // Logically recorded file path
	MatcherType   MatcherType         `json:"matcher_type" yaml:"matcher_type"`                       // Matching strategy
	Matcher       string              `json:"matcher" yaml:"matcher"`                                 // Pattern string
	Required      bool                `json:"required" yaml:"required"`                               // Counts toward the drift state
	Contradiction []ContradictionSpec `json:"contradiction,omitempty" yaml:"contradiction,omitempty"` // Rules that prove the claim false
}

// ClaimRecord is a recorded assertion that some behavior exists in the codebase
type ClaimRecord struct {
	ClaimID        string         `json:"claim_id" yaml:"claim_id"`               // Unique, non-empty
	SourceDoc      string         `json:"source_doc" yaml:"source_doc"`           // Document the claim was recorded in
	ClaimText      string         `json:"claim_text" yaml:"claim_text"`           // The assertion itself
	DeclaredStatus DeclaredStatus `json:"declared_status" yaml:"declared_status"`
	Severity       Severity       `json:"severity" yaml:"severity"`
	Owner          string         `json:"owner,omitempty" yaml:"owner,omitempty"` // Required for critical claims
	Evidence       []EvidenceSpec `json:"evidence" yaml:"evidence"`               // At least one spec
	Tags           []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ClaimLedger is the externally supplied, read-only claim set for one run
type ClaimLedger struct {
	SchemaVersion string        `json:"schema_version" yaml:"schema_version"`
	GeneratedAt   string        `json:"generated_at" yaml:"generated_at"`
	Claims        []ClaimRecord `json:"claims" yaml:"claims"`
}

// OverrideRecord is a time-boxed, approved suppression of a claim's
// blocking verdict
type OverrideRecord struct {
	ClaimID    string `json:"claim_id" yaml:"claim_id"`
	Ticket     string `json:"ticket" yaml:"ticket"`
	Reason     string `json:"reason" yaml:"reason"`
	ApprovedBy string `json:"approved_by" yaml:"approved_by"`
	CreatedAt  string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ExpiresAt  string `json:"expires_at" yaml:"expires_at"`
}

// OverridesFile is the on-disk override set; a missing file means zero overrides
type OverridesFile struct {
	SchemaVersion string           `json:"schema_version" yaml:"schema_version"`
	Overrides     []OverrideRecord `json:"overrides" yaml:"overrides"`
}
