package matcher

import (
	"testing"

	"github.com/driftgate/driftgate/internal/model"
	"github.com/driftgate/driftgate/internal/source"
)

func TestMatch_ASTExport(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		pattern string
		want    bool
	}{
		{
			name:    "exported function",
			file:    "handler.ts",
			content: "export function handler() {}\n",
			pattern: "handler",
			want:    true,
		},
		{
			name:    "unexported function",
			file:    "handler.ts",
			content: "function handler() {}\n",
			pattern: "handler",
			want:    false,
		},
		{
			name:    "exported const binding",
			file:    "config.ts",
			content: "export const settings = { retries: 3 }\n",
			pattern: "settings",
			want:    true,
		},
		{
			name:    "exported class",
			file:    "store.ts",
			content: "export class LedgerStore {}\n",
			pattern: "LedgerStore",
			want:    true,
		},
		{
			name:    "exported interface",
			file:    "types.ts",
			content: "export interface ClaimRecord { id: string }\n",
			pattern: "ClaimRecord",
			want:    true,
		},
		{
			name:    "exported type alias",
			file:    "types.ts",
			content: "export type DriftState = 'ok' | 'missing'\n",
			pattern: "DriftState",
			want:    true,
		},
		{
			name:    "exported enum",
			file:    "types.ts",
			content: "export enum Severity { High, Low }\n",
			pattern: "Severity",
			want:    true,
		},
		{
			name:    "export clause",
			file:    "index.ts",
			content: "function handler() {}\nexport { handler }\n",
			pattern: "handler",
			want:    true,
		},
		{
			name:    "name mismatch",
			file:    "handler.ts",
			content: "export function handlerFactory() {}\n",
			pattern: "handler",
			want:    false,
		},
		{
			name:    "javascript file",
			file:    "handler.mjs",
			content: "export function handler() {}\n",
			pattern: "handler",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(source.NewStore())
			path := writeFixture(t, tt.file, tt.content)

			outcome, err := m.Match("claim-1", path, model.MatcherASTExport, tt.pattern)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if outcome.Matched != tt.want {
				t.Errorf("Expected matched=%v, got %v (%s)", tt.want, outcome.Matched, outcome.Details)
			}
		})
	}
}

func TestMatch_ASTFunctionCall(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pattern string
		want    bool
	}{
		{
			name:    "direct call",
			content: "fetch('/api/claims')\n",
			pattern: "fetch",
			want:    true,
		},
		{
			name:    "method call via suffix",
			content: "const r = api.fetch(url)\n",
			pattern: "fetch",
			want:    true,
		},
		{
			name:    "deep member chain",
			content: "client.http.fetch(url)\n",
			pattern: "fetch",
			want:    true,
		},
		{
			name:    "substring callee does not match",
			content: "prefetch(url)\n",
			pattern: "fetch",
			want:    false,
		},
		{
			name:    "no call present",
			content: "const fetch = 1\n",
			pattern: "fetch",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(source.NewStore())
			path := writeFixture(t, "calls.ts", tt.content)

			outcome, err := m.Match("claim-1", path, model.MatcherASTFunctionCall, tt.pattern)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if outcome.Matched != tt.want {
				t.Errorf("Expected matched=%v, got %v (%s)", tt.want, outcome.Matched, outcome.Details)
			}
		})
	}
}

func TestMatch_ASTRouteHandler(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pattern string
		want    bool
	}{
		{
			name:    "exported verb, lowercase pattern",
			content: "export async function GET(req: Request) {}\n",
			pattern: "get",
			want:    true,
		},
		{
			name:    "exported const verb",
			content: "export const POST = handler()\n",
			pattern: "POST",
			want:    true,
		},
		{
			name:    "verb not exported",
			content: "async function GET(req: Request) {}\n",
			pattern: "GET",
			want:    false,
		},
		{
			name:    "empty pattern never matches",
			content: "export function GET() {}\n",
			pattern: "   ",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(source.NewStore())
			path := writeFixture(t, "route.ts", tt.content)

			outcome, err := m.Match("claim-1", path, model.MatcherASTRouteHandler, tt.pattern)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if outcome.Matched != tt.want {
				t.Errorf("Expected matched=%v, got %v (%s)", tt.want, outcome.Matched, outcome.Details)
			}
		})
	}
}
