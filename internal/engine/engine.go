package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/driftgate/driftgate/internal/ledger"
	"github.com/driftgate/driftgate/internal/llm"
	"github.com/driftgate/driftgate/internal/matcher"
	"github.com/driftgate/driftgate/internal/model"
	"github.com/driftgate/driftgate/internal/override"
	"github.com/driftgate/driftgate/internal/source"
	"github.com/driftgate/driftgate/internal/worker"
	"github.com/google/uuid"
)

// Engine runs one drift evaluation: validate the ledger, filter
// overrides, evaluate evidence against the source tree, classify and
// gate every claim. One Engine holds one per-run source store; build a
// fresh Engine per run so concurrent runs never share cached state.
type Engine struct {
	cfg      *model.Config
	store    *source.Store
	matcher  *matcher.Matcher
	digester *llm.Digester // Optional, nil when disabled

	nowFunc func() time.Time // Injectable for tests
}

// New creates an engine with a fresh source store
func New(cfg *model.Config) *Engine {
	var digester *llm.Digester
	if cfg.LLM.Provider != "" {
		d, err := llm.NewDigester(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			digester = d
		}
	}

	store := source.NewStore()
	return &Engine{
		cfg:      cfg,
		store:    store,
		matcher:  matcher.New(store),
		digester: digester,
		nowFunc:  time.Now,
	}
}

// Evaluate produces a complete drift report for one ledger + override
// set. Claims are evaluated and reported in ledger order for
// determinism; only the cache pre-warm step runs concurrently.
func (e *Engine) Evaluate(ctx context.Context, claimLedger *model.ClaimLedger, overridesFile *model.OverridesFile) (*model.DriftReport, error) {
	start := e.nowFunc().UTC()

	// 1. Schema validation, before any filesystem or AST work
	if err := ledger.Validate(claimLedger); err != nil {
		return nil, err
	}

	// 2. Governance: reduce overrides to the valid set (fail closed)
	evaluator := override.NewEvaluator(e.cfg.Override, start)
	var activeOverrides []model.OverrideRecord
	if overridesFile != nil {
		activeOverrides = evaluator.FilterValid(overridesFile.Overrides)
	}

	// 3. Pre-warm the source cache for distinct evidence paths
	if e.cfg.Engine.PreloadWorkers > 0 {
		preloader := worker.NewPreloader(e.store, e.cfg.Engine.PreloadWorkers)
		preloader.Warm(ctx, e.preloadTargets(claimLedger))
	}

	// 4. Evaluate, classify and gate each claim in ledger order
	summary := model.Summary{ByState: make(map[model.DriftState]int, 4)}
	for _, state := range model.AllStates() {
		summary.ByState[state] = 0
	}

	results := make([]model.ClaimResult, 0, len(claimLedger.Claims))
	for _, claim := range claimLedger.Claims {
		result, err := e.evaluateClaim(claim, activeOverrides)
		if err != nil {
			return nil, fmt.Errorf("claim %s: %w", claim.ClaimID, err)
		}

		summary.TotalClaims++
		summary.ByState[result.State]++
		if result.Blocking {
			summary.BlockingClaims++
		}
		if result.OverrideApplied {
			summary.OverridesApplied++
		}
		results = append(results, result)
	}

	report := &model.DriftReport{
		RunID:       uuid.NewString(),
		Mode:        e.cfg.Engine.Mode,
		Strict:      e.cfg.Engine.Strict,
		RepoRoot:    e.cfg.Engine.RepoRoot,
		GeneratedAt: start,
		DurationMS:  e.nowFunc().UTC().Sub(start).Milliseconds(),
		Summary:     summary,
		Claims:      results,
	}

	// 5. Optional digest, generated after gating: it can never change a
	// state or verdict
	if e.digester != nil && e.digester.IsEnabled() {
		digest, err := e.digester.GenerateDigest(ctx, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: drift digest generation failed: %v\n", err)
		} else if digest != nil {
			report.LLM = digest
		}
	}

	return report, nil
}

// evaluateClaim evaluates every evidence spec (and its attached
// contradiction rules) for one claim, then classifies and gates it
func (e *Engine) evaluateClaim(claim model.ClaimRecord, activeOverrides []model.OverrideRecord) (model.ClaimResult, error) {
	evidence := make([]model.EvidenceResult, 0, len(claim.Evidence))

	for _, spec := range claim.Evidence {
		resolved := source.Resolve(spec.Path, e.cfg.Engine.RepoRoot, e.cfg.Engine.RootMarker)

		outcome, err := e.matcher.Match(claim.ClaimID, resolved, spec.MatcherType, spec.Matcher)
		if err != nil {
			return model.ClaimResult{}, err
		}

		result := model.EvidenceResult{
			Path:         spec.Path,
			ResolvedPath: resolved,
			MatcherType:  spec.MatcherType,
			Matcher:      spec.Matcher,
			Required:     spec.Required,
			Matched:      outcome.Matched,
			Details:      outcome.Details,
		}

		// Contradiction rules are evaluated independently of the main
		// match: proving a claim false matters even when its evidence
		// still matches
		for _, rule := range spec.Contradiction {
			contradiction, err := e.matcher.Match(claim.ClaimID, resolved, rule.MatcherType, rule.Matcher)
			if err != nil {
				return model.ClaimResult{}, err
			}
			if contradiction.Matched && !result.Contradicted {
				result.Contradicted = true
				result.ContradictionReason = rule.Reason
			}
		}

		evidence = append(evidence, result)
	}

	state, _ := Classify(evidence)

	suppression := override.ActiveSuppression(claim.ClaimID, activeOverrides)
	blocking := Blocking(claim.Severity, state, e.cfg.Engine.Mode, e.cfg.Engine.Strict, suppression != nil)

	result := model.ClaimResult{
		ClaimID:         claim.ClaimID,
		Severity:        claim.Severity,
		Owner:           claim.Owner,
		DeclaredStatus:  claim.DeclaredStatus,
		State:           state,
		Blocking:        blocking,
		OverrideApplied: suppression != nil,
		Evidence:        evidence,
	}
	if suppression != nil {
		result.OverrideReason = suppression.Reason
	}

	return result, nil
}

// preloadTargets collects the distinct resolved paths the ledger touches,
// marking the ones any AST matcher will need parsed
func (e *Engine) preloadTargets(claimLedger *model.ClaimLedger) []worker.Target {
	needTree := make(map[string]bool)
	order := make([]string, 0)

	note := func(path string, matcherType model.MatcherType) {
		resolved := source.Resolve(path, e.cfg.Engine.RepoRoot, e.cfg.Engine.RootMarker)
		if _, seen := needTree[resolved]; !seen {
			order = append(order, resolved)
		}
		// ast_workflow_step is text-only despite the prefix
		parses := matcherType.IsAST() && matcherType != model.MatcherASTWorkflowStep
		needTree[resolved] = needTree[resolved] || parses
	}

	for _, claim := range claimLedger.Claims {
		for _, spec := range claim.Evidence {
			note(spec.Path, spec.MatcherType)
			for _, rule := range spec.Contradiction {
				note(spec.Path, rule.MatcherType)
			}
		}
	}

	targets := make([]worker.Target, 0, len(order))
	for _, path := range order {
		targets = append(targets, worker.Target{Path: path, NeedTree: needTree[path]})
	}
	return targets
}
