package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/driftgate/driftgate/internal/engine"
	"github.com/driftgate/driftgate/internal/ledger"
	"github.com/driftgate/driftgate/internal/model"
	"github.com/driftgate/driftgate/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrBlockingDrift is returned by check when blocking claims exist under
// enforce mode; main maps it to a non-zero exit code
var ErrBlockingDrift = errors.New("blocking drift detected")

var (
	ledgerPath    string
	overridesPath string
	repoRoot      string
	rootMarker    string
	mode          string
	strict        string
	workers       int
	maxTTLDays    int
	approvers     []string
	outJSON       string
	outMD         string
	noFooter      bool
	timeout       time.Duration
	llmProvider   string
	llmModel      string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a claim ledger against the source tree",
	Long: `Check loads a claim ledger and an override file, evaluates every
claim's evidence specs against the live source tree, classifies each
claim into a drift state (ok, partial, missing, contradicted), applies
override suppression, and produces a severity-gated verdict.

Under --mode enforce, a non-zero exit code signals blocking drift.

Example:
  driftgate check --ledger claims.json --repo-root .
  driftgate check --ledger claims.yaml --overrides overrides.json --mode enforce --strict high
  driftgate check --ledger claims.json --json report.json --md report.md`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Input flags
	checkCmd.Flags().StringVar(&ledgerPath, "ledger", "", "claim ledger path (JSON or YAML)")
	checkCmd.Flags().StringVar(&overridesPath, "overrides", "", "override file path (missing file = zero overrides)")
	checkCmd.Flags().StringVar(&repoRoot, "repo-root", ".", "root of the source tree to scan")
	checkCmd.Flags().StringVar(&rootMarker, "root-marker", "", "path segment used to rebase relocated ledger paths (default: basename of repo root)")
	_ = checkCmd.MarkFlagRequired("ledger")

	// Gate flags
	checkCmd.Flags().StringVar(&mode, "mode", model.ModeReport, "run mode (report, enforce)")
	checkCmd.Flags().StringVar(&strict, "strict", string(model.SeverityHigh), "severity floor at or above which drift blocks (critical, high, medium, low)")

	// Governance flags
	checkCmd.Flags().IntVar(&maxTTLDays, "max-ttl-days", 90, "maximum override TTL in days")
	checkCmd.Flags().StringSliceVar(&approvers, "approvers", nil, "approver allow-list (@handles); empty disables allow-listing")

	// Engine flags
	checkCmd.Flags().IntVar(&workers, "workers", 4, "source preload workers (0 disables preload)")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall evaluation timeout")

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "enable drift digest via LLM provider (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")

	_ = viper.BindPFlag("engine.mode", checkCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("engine.strict", checkCmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("override.max_ttl_days", checkCmd.Flags().Lookup("max-ttl-days"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Ledger: %s\n", ledgerPath)
		fmt.Fprintf(os.Stderr, "Repo root: %s\n", cfg.Engine.RepoRoot)
		fmt.Fprintf(os.Stderr, "Mode: %s (strict: %s)\n", cfg.Engine.Mode, cfg.Engine.Strict)
		fmt.Fprintln(os.Stderr)
	}

	claimLedger, err := ledger.LoadLedger(ledgerPath)
	if err != nil {
		return err
	}
	overrides, err := ledger.LoadOverrides(overridesPath)
	if err != nil {
		return err
	}

	result, err := engine.New(cfg).Evaluate(ctx, claimLedger, overrides)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Evaluated %d claims in %d ms\n", result.Summary.TotalClaims, result.DurationMS)
		if result.LLM != nil && result.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated drift digest using %s/%s\n", result.LLM.Provider, result.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := report.NewRenderer(!noFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if result.LLM != nil && result.LLM.Enabled {
			digestPath := strings.TrimSuffix(outMD, ".md") + ".llm.md"
			if err := renderer.RenderDigest(result.LLM, digestPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to write drift digest: %v\n", err)
			}
		}
	}
	renderer.RenderSummary(result)

	if cfg.Engine.Mode == model.ModeEnforce && result.Summary.BlockingClaims > 0 {
		return fmt.Errorf("%w: %d claim(s)", ErrBlockingDrift, result.Summary.BlockingClaims)
	}
	return nil
}

// buildConfig assembles the run configuration from defaults, config file
// and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Engine.Mode = mode
	cfg.Engine.RepoRoot = repoRoot
	cfg.Engine.RootMarker = rootMarker
	cfg.Engine.PreloadWorkers = workers
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Override.MaxTTLDays = maxTTLDays
	cfg.Override.AllowedApprovers = approvers

	if cfg.Engine.Mode != model.ModeReport && cfg.Engine.Mode != model.ModeEnforce {
		return nil, fmt.Errorf("invalid mode %q (expected report or enforce)", cfg.Engine.Mode)
	}

	severity := model.Severity(strict)
	if !severity.Valid() {
		return nil, fmt.Errorf("invalid strict severity %q", strict)
	}
	cfg.Engine.Strict = severity

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
