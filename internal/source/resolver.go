package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve maps a logically recorded ledger path to a concrete filesystem
// path. Ledgers are often authored against a different checkout location
// than the tree being scanned, so resolution is relocation-tolerant:
//
//  1. an absolute path that exists is used as-is;
//  2. otherwise the path is searched for the repo-root marker segment and
//     the suffix after it is rebased onto repoRoot (used if it exists);
//  3. otherwise the path is joined onto repoRoot and returned whether or
//     not it exists — non-existence is a non-match downstream, not an error.
//
// An empty marker defaults to the basename of repoRoot.
func Resolve(rawPath, repoRoot, marker string) string {
	if filepath.IsAbs(rawPath) {
		if _, err := os.Stat(rawPath); err == nil {
			return rawPath
		}
	}

	if marker == "" {
		marker = filepath.Base(repoRoot)
	}

	normalized := strings.ReplaceAll(rawPath, "\\", "/")
	if marker != "" && marker != "." && marker != string(filepath.Separator) {
		segments := strings.Split(strings.Trim(normalized, "/"), "/")
		for i, segment := range segments {
			if segment != marker || i == len(segments)-1 {
				continue
			}
			candidate := filepath.Join(repoRoot, filepath.FromSlash(strings.Join(segments[i+1:], "/")))
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			break
		}
	}

	return filepath.Join(repoRoot, filepath.FromSlash(normalized))
}

// Exists reports whether the resolved path points at a readable file entry
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
