package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/driftgate/driftgate/internal/llm"
	"github.com/driftgate/driftgate/internal/model"
)

// Renderer writes drift reports to JSON and Markdown. Rendering is a
// consumer-facing boundary: it only reads the report, never recomputes
// states or verdicts.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.DriftReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.DriftReport, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.DriftReport) string {
	var b strings.Builder

	b.WriteString("# Driftgate Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- Mode: **%s** (strict floor: %s)\n", report.Mode, report.Strict)
	fmt.Fprintf(&b, "- Repo root: `%s`\n", report.RepoRoot)
	fmt.Fprintf(&b, "- Generated: %s (%d ms)\n\n", report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"), report.DurationMS)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Total | OK | Partial | Missing | Contradicted | Blocking | Overrides |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d | %d |\n\n",
		report.Summary.TotalClaims,
		report.Summary.ByState[model.StateOK],
		report.Summary.ByState[model.StatePartial],
		report.Summary.ByState[model.StateMissing],
		report.Summary.ByState[model.StateContradicted],
		report.Summary.BlockingClaims,
		report.Summary.OverridesApplied)

	if report.Summary.BlockingClaims > 0 {
		fmt.Fprintf(&b, "**%d claim(s) block this pipeline run.**\n\n", report.Summary.BlockingClaims)
	}

	b.WriteString("## Claims\n\n")
	b.WriteString("| Claim | Severity | Declared | State | Blocking | Override |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, claim := range report.Claims {
		override := ""
		if claim.OverrideApplied {
			override = claim.OverrideReason
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s | %s |\n",
			claim.ClaimID, claim.Severity, claim.DeclaredStatus, claim.State,
			boolMark(claim.Blocking), override)
	}
	b.WriteString("\n")

	drifted := driftedClaims(report)
	if len(drifted) > 0 {
		b.WriteString("## Evidence detail\n\n")
		for _, claim := range drifted {
			fmt.Fprintf(&b, "### `%s` — %s\n\n", claim.ClaimID, claim.State)
			if claim.Owner != "" {
				fmt.Fprintf(&b, "Owner: %s\n\n", claim.Owner)
			}
			for _, ev := range claim.Evidence {
				required := "optional"
				if ev.Required {
					required = "required"
				}
				fmt.Fprintf(&b, "- %s `%s` on `%s` (%s): %s\n", boolMark(ev.Matched), ev.MatcherType, ev.Path, required, ev.Details)
				if ev.Contradicted {
					fmt.Fprintf(&b, "  - contradicted: %s\n", ev.ContradictionReason)
				}
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by Driftgate. States reflect evidence in the scanned tree, not intent.\n")
	}

	return b.String()
}

// RenderDigest writes the optional LLM digest to its own file, separate
// from the report proper
func (r *Renderer) RenderDigest(summary *model.DigestSummary, path string) error {
	if err := os.WriteFile(path, []byte(llm.RenderDigestMarkdown(summary)), 0644); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}
	return nil
}

// RenderSummary prints the run-level verdict to stdout
func (r *Renderer) RenderSummary(report *model.DriftReport) {
	fmt.Printf("Claims: %d  ok=%d partial=%d missing=%d contradicted=%d\n",
		report.Summary.TotalClaims,
		report.Summary.ByState[model.StateOK],
		report.Summary.ByState[model.StatePartial],
		report.Summary.ByState[model.StateMissing],
		report.Summary.ByState[model.StateContradicted])
	fmt.Printf("Overrides applied: %d\n", report.Summary.OverridesApplied)

	if report.Summary.BlockingClaims > 0 {
		fmt.Printf("BLOCKING: %d claim(s) at or above severity %q under %s mode\n",
			report.Summary.BlockingClaims, report.Strict, report.Mode)
		return
	}
	fmt.Println("No blocking drift.")
}

func driftedClaims(report *model.DriftReport) []model.ClaimResult {
	var drifted []model.ClaimResult
	for _, claim := range report.Claims {
		if claim.State != model.StateOK {
			drifted = append(drifted, claim)
		}
	}
	return drifted
}

func boolMark(matched bool) string {
	if matched {
		return "✓"
	}
	return "✗"
}
