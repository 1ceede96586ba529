package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftgate/driftgate/internal/model"
)

func TestLoadLedger_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.json")
	content := `{
  "schema_version": "1",
  "generated_at": "2026-08-20T10:00:00Z",
  "claims": [
    {
      "claim_id": "claim-auth",
      "source_doc": "docs/auth.md",
      "claim_text": "Session auth is implemented",
      "declared_status": "implemented",
      "severity": "high",
      "evidence": [
        {"path": "src/auth.ts", "matcher_type": "ast_export", "matcher": "createSession", "required": true}
      ]
    }
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ledger, err := LoadLedger(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ledger.Claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(ledger.Claims))
	}
	if ledger.Claims[0].Evidence[0].MatcherType != model.MatcherASTExport {
		t.Errorf("Expected ast_export matcher, got %s", ledger.Claims[0].Evidence[0].MatcherType)
	}
}

func TestLoadLedger_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.yaml")
	content := `schema_version: "1"
generated_at: 2026-08-20T10:00:00Z
claims:
  - claim_id: claim-auth
    source_doc: docs/auth.md
    claim_text: Session auth is implemented
    declared_status: implemented
    severity: critical
    owner: "@platform-team"
    evidence:
      - path: src/auth.ts
        matcher_type: ast_export
        matcher: createSession
        required: true
        contradiction:
          - matcher_type: marker_tag
            matcher: "@deprecated:auth"
            reason: auth module marked deprecated
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ledger, err := LoadLedger(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	claim := ledger.Claims[0]
	if claim.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", claim.Severity)
	}
	if len(claim.Evidence[0].Contradiction) != 1 {
		t.Fatalf("Expected 1 contradiction rule, got %d", len(claim.Evidence[0].Contradiction))
	}
	if claim.Evidence[0].Contradiction[0].Reason != "auth module marked deprecated" {
		t.Errorf("Unexpected contradiction reason: %q", claim.Evidence[0].Contradiction[0].Reason)
	}
}

func TestLoadLedger_Missing(t *testing.T) {
	if _, err := LoadLedger(filepath.Join(t.TempDir(), "gone.json")); err == nil {
		t.Error("Expected error for missing ledger")
	}
}

func TestLoadLedger_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLedger(path); err == nil {
		t.Error("Expected decode error")
	}
}

func TestLoadOverrides_MissingFileMeansZero(t *testing.T) {
	overrides, err := LoadOverrides(filepath.Join(t.TempDir(), "overrides.json"))
	if err != nil {
		t.Fatalf("Expected missing override file to be tolerated, got %v", err)
	}
	if len(overrides.Overrides) != 0 {
		t.Errorf("Expected zero overrides, got %d", len(overrides.Overrides))
	}
}

func TestLoadOverrides_EmptyPathMeansZero(t *testing.T) {
	overrides, err := LoadOverrides("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(overrides.Overrides) != 0 {
		t.Errorf("Expected zero overrides, got %d", len(overrides.Overrides))
	}
}

func TestLoadOverrides_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	content := `{
  "schema_version": "1",
  "overrides": [
    {
      "claim_id": "claim-auth",
      "ticket": "DRIFT-7",
      "reason": "auth rewrite in flight",
      "approved_by": "@release-captain",
      "created_at": "2026-08-01",
      "expires_at": "2026-09-01"
    }
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(overrides.Overrides) != 1 {
		t.Fatalf("Expected 1 override, got %d", len(overrides.Overrides))
	}
	if overrides.Overrides[0].Ticket != "DRIFT-7" {
		t.Errorf("Unexpected ticket: %q", overrides.Overrides[0].Ticket)
	}
}
