package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve_AbsoluteExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "handler.ts")
	if err := os.WriteFile(target, []byte("export {}"), 0644); err != nil {
		t.Fatal(err)
	}

	resolved := Resolve(target, t.TempDir(), "")
	if resolved != target {
		t.Errorf("Expected absolute existing path returned as-is, got %s", resolved)
	}
}

func TestResolve_AbsoluteMissingFallsThrough(t *testing.T) {
	repoRoot := t.TempDir()

	resolved := Resolve("/nonexistent/checkout/src/app.ts", repoRoot, "")
	want := filepath.Join(repoRoot, "nonexistent", "checkout", "src", "app.ts")
	if resolved != want {
		t.Errorf("Expected join onto repo root, got %s", resolved)
	}
}

func TestResolve_MarkerRebase(t *testing.T) {
	repoRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repoRoot, "src", "api"), 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(repoRoot, "src", "api", "route.ts")
	if err := os.WriteFile(target, []byte("export {}"), 0644); err != nil {
		t.Fatal(err)
	}

	// Ledger authored against a different checkout location
	marker := filepath.Base(repoRoot)
	raw := "/home/other/checkouts/" + marker + "/src/api/route.ts"

	resolved := Resolve(raw, repoRoot, "")
	if resolved != target {
		t.Errorf("Expected marker rebase to %s, got %s", target, resolved)
	}
}

func TestResolve_ExplicitMarker(t *testing.T) {
	repoRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repoRoot, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(repoRoot, "lib", "util.ts")
	if err := os.WriteFile(target, []byte("export {}"), 0644); err != nil {
		t.Fatal(err)
	}

	resolved := Resolve("workspace/service/lib/util.ts", repoRoot, "service")
	if resolved != target {
		t.Errorf("Expected explicit marker rebase to %s, got %s", target, resolved)
	}
}

func TestResolve_RelativeFallbackNonExistent(t *testing.T) {
	repoRoot := t.TempDir()

	// Non-existence is the matcher's problem, not the resolver's
	resolved := Resolve("src/missing.ts", repoRoot, "")
	want := filepath.Join(repoRoot, "src", "missing.ts")
	if resolved != want {
		t.Errorf("Expected %s, got %s", want, resolved)
	}
}

func TestResolve_WindowsSlashes(t *testing.T) {
	repoRoot := t.TempDir()

	resolved := Resolve(`src\pages\index.tsx`, repoRoot, "")
	want := filepath.Join(repoRoot, "src", "pages", "index.tsx")
	if resolved != want {
		t.Errorf("Expected normalized slashes, got %s", resolved)
	}
}
