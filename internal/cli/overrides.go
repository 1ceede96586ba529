package cli

import (
	"fmt"
	"time"

	"github.com/driftgate/driftgate/internal/ledger"
	"github.com/driftgate/driftgate/internal/model"
	"github.com/driftgate/driftgate/internal/override"
	"github.com/spf13/cobra"
)

var (
	overridesListPath    string
	overridesStatus      string
	overridesMaxTTLDays  int
	overridesApproverSet []string
)

// overridesCmd groups override inspection commands
var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Inspect override records",
}

// overridesListCmd lists overrides with their computed governance status
var overridesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List overrides with computed status",
	Long: `List every override record with its governance status: active,
expired, or rejected (with the rejection reason). The same policy rules
used during a check run are applied.

Example:
  driftgate overrides list --overrides overrides.json
  driftgate overrides list --overrides overrides.json --status rejected`,
	RunE: runOverridesList,
}

func init() {
	rootCmd.AddCommand(overridesCmd)
	overridesCmd.AddCommand(overridesListCmd)

	overridesListCmd.Flags().StringVar(&overridesListPath, "overrides", "", "override file path")
	overridesListCmd.Flags().StringVar(&overridesStatus, "status", "", "filter by status (active, expired, rejected)")
	overridesListCmd.Flags().IntVar(&overridesMaxTTLDays, "max-ttl-days", 90, "maximum override TTL in days")
	overridesListCmd.Flags().StringSliceVar(&overridesApproverSet, "approvers", nil, "approver allow-list (@handles)")
	_ = overridesListCmd.MarkFlagRequired("overrides")
}

func runOverridesList(cmd *cobra.Command, args []string) error {
	if overridesStatus != "" {
		valid := map[string]bool{"active": true, "expired": true, "rejected": true}
		if !valid[overridesStatus] {
			return fmt.Errorf("invalid status filter: %s", overridesStatus)
		}
	}

	overrides, err := ledger.LoadOverrides(overridesListPath)
	if err != nil {
		return err
	}

	policy := model.OverridePolicy{
		MaxTTLDays:       overridesMaxTTLDays,
		AllowedApprovers: overridesApproverSet,
	}
	evaluator := override.NewEvaluator(policy, time.Now().UTC())

	fmt.Printf("%-20s %-10s %-12s %-16s %s\n", "CLAIM", "STATUS", "EXPIRES", "APPROVED BY", "DETAIL")
	for _, record := range overrides.Overrides {
		status, checkErr := evaluator.Check(record)
		if overridesStatus != "" && status != overridesStatus {
			continue
		}

		detail := record.Reason
		if checkErr != nil {
			detail = checkErr.Error()
		}
		if len(detail) > 40 {
			detail = detail[:37] + "..."
		}

		fmt.Printf("%-20s %-10s %-12s %-16s %s\n",
			record.ClaimID, status, record.ExpiresAt,
			override.NormalizeHandle(record.ApprovedBy), detail)
	}
	return nil
}
