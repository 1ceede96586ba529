package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftgate/driftgate/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Digest generates a remediation digest for a drift report
	Digest(ctx context.Context, req DigestRequest) (*DigestResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// DigestRequest contains the input for digest generation
type DigestRequest struct {
	// Report is the drift report to digest
	Report *model.DriftReport

	// ClaimIDs is the STRICT allowlist of claim IDs the model may
	// reference; anything else is a leak
	ClaimIDs []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// DigestResponse contains the model's output
type DigestResponse struct {
	Digest     string // Markdown digest text
	Model      string // Model that generated the response
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	Provider       string // "openai", "ollama", "" (disabled)
	Model          string
	APIKey         string
	BaseURL        string
	Timeout        int // Seconds
	StrictClaimIDs bool
	MaxTokens      int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		StrictClaimIDs: cfg.StrictClaimIDs,
		MaxTokens:      cfg.MaxTokens,
	}
}

// NewProvider creates a provider from configuration; nil when disabled
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// BuildPrompt constructs the default digest prompt with strict claim-id mode
func BuildPrompt(report *model.DriftReport, claimIDs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a Driftgate report. Driftgate checks whether recorded claims are still backed by evidence in a source tree - it never decides what the code SHOULD do.

CRITICAL RULES:
1. You MUST ONLY reference claim IDs from this allowed list:
%s

2. DO NOT invent, infer or reference claim IDs outside this list.
3. Describe drift and remediation, never product decisions.
4. If a claim is contradicted, say so explicitly and quote its recorded reason if present.

Run summary:
- Mode: %s (strict floor: %s)
- Claims: %d total, %d blocking
- States: %d ok, %d partial, %d missing, %d contradicted
- Overrides applied: %d

Unresolved claims:
`,
		joinClaimIDs(claimIDs), report.Mode, report.Strict,
		report.Summary.TotalClaims, report.Summary.BlockingClaims,
		report.Summary.ByState[model.StateOK], report.Summary.ByState[model.StatePartial],
		report.Summary.ByState[model.StateMissing], report.Summary.ByState[model.StateContradicted],
		report.Summary.OverridesApplied)

	listed := 0
	for _, claim := range report.Claims {
		if claim.State == model.StateOK {
			continue
		}
		if listed >= 10 {
			fmt.Fprintf(&b, "... and more\n")
			break
		}
		fmt.Fprintf(&b, "- %s [%s/%s]", claim.ClaimID, claim.Severity, claim.State)
		if claim.OverrideApplied {
			b.WriteString(" (override applied)")
		}
		b.WriteString("\n")
		listed++
	}

	b.WriteString("\nProvide a 3-5 sentence remediation digest for the owners of the unresolved claims.")
	return b.String()
}

func joinClaimIDs(claimIDs []string) string {
	if len(claimIDs) == 0 {
		return "(no claims in report)"
	}
	var b strings.Builder
	for i, id := range claimIDs {
		if i >= 50 {
			fmt.Fprintf(&b, "\n... and %d more", len(claimIDs)-50)
			break
		}
		fmt.Fprintf(&b, "\n- %s", id)
	}
	return b.String()
}
