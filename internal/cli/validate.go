package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/driftgate/driftgate/internal/ledger"
	"github.com/driftgate/driftgate/internal/model"
	"github.com/driftgate/driftgate/internal/override"
	"github.com/spf13/cobra"
)

var (
	validateLedgerPath    string
	validateOverridesPath string
)

// validateCmd runs only the schema validation stage, for fast
// pre-commit checks without touching the source tree
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate ledger and override files without scanning",
	Long: `Validate checks the structural invariants of a claim ledger (unique
claim IDs, severity values, evidence presence, critical-claim rules) and
reports every problem in one pass. No filesystem or AST work is done.

Example:
  driftgate validate --ledger claims.json
  driftgate validate --ledger claims.yaml --overrides overrides.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateLedgerPath, "ledger", "", "claim ledger path (JSON or YAML)")
	validateCmd.Flags().StringVar(&validateOverridesPath, "overrides", "", "override file path")
	_ = validateCmd.MarkFlagRequired("ledger")
}

func runValidate(cmd *cobra.Command, args []string) error {
	claimLedger, err := ledger.LoadLedger(validateLedgerPath)
	if err != nil {
		return err
	}

	if err := ledger.Validate(claimLedger); err != nil {
		var schemaErr *ledger.SchemaError
		if errors.As(err, &schemaErr) {
			fmt.Printf("Ledger has %d problem(s):\n", len(schemaErr.Problems))
			for _, problem := range schemaErr.Problems {
				fmt.Printf("  - %s\n", problem)
			}
		}
		return err
	}
	fmt.Printf("✓ Ledger OK: %d claims\n", len(claimLedger.Claims))

	if validateOverridesPath != "" {
		overrides, err := ledger.LoadOverrides(validateOverridesPath)
		if err != nil {
			return err
		}

		evaluator := override.NewEvaluator(model.DefaultConfig().Override, time.Now().UTC())
		rejected := 0
		for _, record := range overrides.Overrides {
			if status, err := evaluator.Check(record); err != nil {
				fmt.Printf("  - override %s: %s (%v)\n", record.ClaimID, status, err)
				rejected++
			}
		}
		fmt.Printf("✓ Overrides: %d record(s), %d would be rejected\n", len(overrides.Overrides), rejected)
	}

	return nil
}
