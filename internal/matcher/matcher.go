package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/driftgate/driftgate/internal/model"
	"github.com/driftgate/driftgate/internal/source"
)

// MarkerTagPrefix is the default marker template; an empty marker_tag
// pattern matches "@claim-evidence:<claim_id>".
const MarkerTagPrefix = "@claim-evidence:"

// Outcome is the result of evaluating one evidence pattern against a file
type Outcome struct {
	Matched bool   // Whether the pattern matched
	Details string // Human-readable diagnostic
}

// Matcher evaluates evidence patterns against the live source tree.
// The matcher set is a closed tagged dispatch, not a plugin system:
// arbitrary matcher code would undermine the tool's own trustworthiness.
type Matcher struct {
	store *source.Store
}

// New creates a matcher backed by the given per-run source store
func New(store *source.Store) *Matcher {
	return &Matcher{store: store}
}

// Match evaluates a single evidence pattern. A missing file is a
// non-match ("file_not_found"), not an error; an unreadable file is a
// hard error; an unknown matcher type is rejected explicitly.
func (m *Matcher) Match(claimID, resolvedPath string, matcherType model.MatcherType, pattern string) (Outcome, error) {
	if !matcherType.Known() {
		return Outcome{}, fmt.Errorf("unknown matcher type %q", matcherType)
	}

	if !source.Exists(resolvedPath) {
		return Outcome{Matched: false, Details: "file_not_found"}, nil
	}

	switch matcherType {
	case model.MatcherRegex:
		return m.matchRegex(resolvedPath, pattern)
	case model.MatcherMarkerTag:
		return m.matchMarkerTag(claimID, resolvedPath, pattern)
	case model.MatcherASTWorkflowStep:
		return m.matchWorkflowStep(resolvedPath, pattern)
	case model.MatcherASTExport:
		return m.matchExport(resolvedPath, pattern)
	case model.MatcherASTFunctionCall:
		return m.matchFunctionCall(resolvedPath, pattern)
	case model.MatcherASTRouteHandler:
		return m.matchRouteHandler(resolvedPath, pattern)
	}

	return Outcome{}, fmt.Errorf("unknown matcher type %q", matcherType)
}

// matchRegex tests the pattern against the raw file text. The pattern is
// either a literal string (compiled with a default multiline flag) or a
// slash-delimited /body/flags form.
func (m *Matcher) matchRegex(path, pattern string) (Outcome, error) {
	text, err := m.store.Text(path)
	if err != nil {
		return Outcome{}, err
	}

	re, err := compilePattern(pattern)
	if err != nil {
		// Malformed patterns are data problems, not run failures
		return Outcome{Matched: false, Details: fmt.Sprintf("invalid regex: %v", err)}, nil
	}

	if re.Match(text) {
		return Outcome{Matched: true, Details: fmt.Sprintf("regex %s matched", pattern)}, nil
	}
	return Outcome{Matched: false, Details: fmt.Sprintf("regex %s did not match", pattern)}, nil
}

// matchMarkerTag does a substring search for the tag, defaulting to the
// claim-specific template when the pattern is empty
func (m *Matcher) matchMarkerTag(claimID, path, pattern string) (Outcome, error) {
	text, err := m.store.Text(path)
	if err != nil {
		return Outcome{}, err
	}

	tag := strings.TrimSpace(pattern)
	if tag == "" {
		tag = MarkerTagPrefix + claimID
	}

	if strings.Contains(string(text), tag) {
		return Outcome{Matched: true, Details: fmt.Sprintf("marker %q found", tag)}, nil
	}
	return Outcome{Matched: false, Details: fmt.Sprintf("marker %q not found", tag)}, nil
}

// matchWorkflowStep matches a CI workflow step by name. The file is
// treated as YAML-shaped text and matched with a multiline line-anchored
// regex rather than a real YAML parser; block scalars and quoting
// variants are a known limitation, preserved so ledgers keep their exact
// matching semantics.
func (m *Matcher) matchWorkflowStep(path, pattern string) (Outcome, error) {
	text, err := m.store.Text(path)
	if err != nil {
		return Outcome{}, err
	}

	re, err := regexp.Compile(`(?m)^\s*-\s+name:\s*` + regexp.QuoteMeta(pattern) + `\s*$`)
	if err != nil {
		return Outcome{Matched: false, Details: fmt.Sprintf("invalid step pattern: %v", err)}, nil
	}

	if re.Match(text) {
		return Outcome{Matched: true, Details: fmt.Sprintf("workflow step %q found", pattern)}, nil
	}
	return Outcome{Matched: false, Details: fmt.Sprintf("workflow step %q not found", pattern)}, nil
}

// compilePattern compiles either a verbatim pattern (default multiline)
// or a /body/flags slash-delimited pattern. Of the slash-form flags, m,
// i and s map onto Go regexp flags; g, u and y have no Go equivalent and
// are ignored.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") {
		if end := strings.LastIndex(pattern, "/"); end > 0 {
			body := pattern[1:end]
			flags := pattern[end+1:]

			var goFlags strings.Builder
			for _, f := range flags {
				switch f {
				case 'm', 'i', 's':
					goFlags.WriteRune(f)
				}
			}
			if goFlags.Len() > 0 {
				body = "(?" + goFlags.String() + ")" + body
			}
			return regexp.Compile(body)
		}
	}

	return regexp.Compile("(?m)" + pattern)
}
