package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/driftgate/driftgate/internal/model"
)

// Digester wraps a provider and produces the optional drift digest.
// The digest is generated after classification and gating and can never
// change a state or verdict.
type Digester struct {
	provider Provider
	config   Config
}

// NewDigester creates a digester; provider is nil when LLM is disabled
func NewDigester(config Config) (*Digester, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Digester{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (d *Digester) IsEnabled() bool {
	return d.provider != nil
}

// ProviderName returns the configured provider's name, or ""
func (d *Digester) ProviderName() string {
	if d.provider == nil {
		return ""
	}
	return d.provider.Name()
}

// GenerateDigest produces the digest summary for a report. Returns nil
// when disabled. An unavailable provider yields a disabled summary with
// a warning rather than an error, so CI output stays complete.
func (d *Digester) GenerateDigest(ctx context.Context, report *model.DriftReport) (*model.DigestSummary, error) {
	if d.provider == nil {
		return nil, nil
	}

	if !d.provider.IsAvailable(ctx) {
		return &model.DigestSummary{
			Enabled:  false,
			Provider: d.provider.Name(),
			Warnings: []string{fmt.Sprintf("provider %s unavailable", d.provider.Name())},
		}, nil
	}

	claimIDs := make([]string, 0, len(report.Claims))
	for _, claim := range report.Claims {
		claimIDs = append(claimIDs, claim.ClaimID)
	}

	resp, err := d.provider.Digest(ctx, DigestRequest{
		Report:    report,
		ClaimIDs:  claimIDs,
		Model:     d.config.Model,
		MaxTokens: d.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("digest generation: %w", err)
	}

	summary := &model.DigestSummary{
		Enabled:        true,
		Provider:       d.provider.Name(),
		Model:          resp.Model,
		StrictClaimIDs: d.config.StrictClaimIDs,
		DigestMD:       resp.Digest,
	}

	if d.config.StrictClaimIDs {
		if leaks := detectClaimIDLeaks(resp.Digest, claimIDs); len(leaks) > 0 {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("digest references claim IDs outside the report: %s", strings.Join(leaks, ", ")))
		}
	}

	return summary, nil
}

// claimIDPattern matches claim-id-shaped tokens in generated text
var claimIDPattern = regexp.MustCompile(`\bclaim[-_][A-Za-z0-9][A-Za-z0-9._-]*`)

// detectClaimIDLeaks returns claim-id-shaped tokens in the digest that
// do not correspond to any claim in the report
func detectClaimIDLeaks(digest string, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}

	var leaks []string
	seen := make(map[string]bool)
	for _, token := range claimIDPattern.FindAllString(digest, -1) {
		token = strings.TrimRight(token, ".,;:")
		if allowedSet[token] || seen[token] {
			continue
		}
		seen[token] = true
		leaks = append(leaks, token)
	}
	return leaks
}

// RenderDigestMarkdown renders the digest as a standalone Markdown
// document, kept separate from the main report so readers cannot mistake
// generated prose for evaluated evidence
func RenderDigestMarkdown(summary *model.DigestSummary) string {
	var b strings.Builder

	b.WriteString("# Drift Digest (LLM-generated)\n\n")
	fmt.Fprintf(&b, "> Generated by %s/%s. This digest never affects drift states or the gate verdict.\n\n", summary.Provider, summary.Model)
	b.WriteString(summary.DigestMD)
	b.WriteString("\n")

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warning := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	return b.String()
}
