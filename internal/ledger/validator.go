package ledger

import (
	"fmt"
	"strings"

	"github.com/driftgate/driftgate/internal/model"
)

// SchemaError reports structural problems in a ledger. All problems are
// collected before returning so operators fix the ledger in one pass.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ledger schema: %d problem(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks the structural invariants of a claim ledger. It runs
// before any filesystem or AST work so malformed ledgers fail fast and
// cheaply. Returns a *SchemaError listing every violation, or nil.
func Validate(ledger *model.ClaimLedger) error {
	var problems []string

	if ledger == nil {
		return &SchemaError{Problems: []string{"ledger is empty"}}
	}
	if strings.TrimSpace(ledger.SchemaVersion) == "" {
		problems = append(problems, "schema_version must be a non-empty string")
	}
	if strings.TrimSpace(ledger.GeneratedAt) == "" {
		problems = append(problems, "generated_at must be a non-empty string")
	}
	if ledger.Claims == nil {
		problems = append(problems, "claims must be a list")
	}

	seen := make(map[string]bool)
	for i, claim := range ledger.Claims {
		key := claim.ClaimID
		if key == "" {
			key = fmt.Sprintf("claims[%d]", i)
		}

		if claim.ClaimID == "" {
			problems = append(problems, fmt.Sprintf("%s: missing claim_id", key))
		} else if seen[claim.ClaimID] {
			problems = append(problems, fmt.Sprintf("duplicate claim_id: %s", claim.ClaimID))
		}
		seen[claim.ClaimID] = true

		if !claim.Severity.Valid() {
			problems = append(problems, fmt.Sprintf("%s: invalid severity %q", key, claim.Severity))
		}
		if len(claim.Evidence) == 0 {
			problems = append(problems, fmt.Sprintf("%s: claim has no evidence specs", key))
		}

		if claim.Severity == model.SeverityCritical {
			if strings.TrimSpace(claim.Owner) == "" {
				problems = append(problems, fmt.Sprintf("%s: critical claim requires a non-empty owner", key))
			}
			if !hasRequiredASTSpec(claim.Evidence) {
				problems = append(problems, fmt.Sprintf("%s: critical claim requires at least one required ast_* evidence spec", key))
			}
		}
	}

	if len(problems) > 0 {
		return &SchemaError{Problems: problems}
	}
	return nil
}

func hasRequiredASTSpec(specs []model.EvidenceSpec) bool {
	for _, spec := range specs {
		if spec.Required && spec.MatcherType.IsAST() {
			return true
		}
	}
	return false
}
