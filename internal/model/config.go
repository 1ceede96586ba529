package model

// Config is the complete Driftgate configuration
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Override OverridePolicy `yaml:"override"`
	Output   OutputConfig   `yaml:"output"`
	LLM      LLMConfig      `yaml:"llm"`
}

// EngineConfig controls evaluation behavior
type EngineConfig struct {
	Mode           string   `yaml:"mode"`            // report or enforce
	Strict         Severity `yaml:"strict"`          // Severity floor at or above which drift blocks
	RepoRoot       string   `yaml:"repo_root"`       // Root of the source tree being scanned
	RootMarker     string   `yaml:"root_marker"`     // Path segment used to rebase relocated ledger paths (default: basename of repo_root)
	PreloadWorkers int      `yaml:"preload_workers"` // Workers pre-warming the source cache (0 disables preload)
}

// OverridePolicy governs which override records may suppress a verdict
type OverridePolicy struct {
	MaxTTLDays       int      `yaml:"max_ttl_days"`      // Maximum expires_at - created_at, in days
	AllowedApprovers []string `yaml:"allowed_approvers"` // Non-empty enables approver allow-listing (@handle form)
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// LLMConfig configures the optional drift digest
type LLMConfig struct {
	Provider       string `yaml:"provider"` // openai, ollama, "" (disabled)
	Model          string `yaml:"model"`
	APIKey         string `yaml:"-"` // Always from environment, never persisted
	BaseURL        string `yaml:"base_url"`
	Timeout        int    `yaml:"timeout"` // Seconds
	StrictClaimIDs bool   `yaml:"strict_claim_ids"`
	MaxTokens      int    `yaml:"max_tokens"`
}

// ModeReport and ModeEnforce are the two run modes
const (
	ModeReport  = "report"
	ModeEnforce = "enforce"
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Mode:           ModeReport,
			Strict:         SeverityHigh,
			RepoRoot:       ".",
			PreloadWorkers: 4,
		},
		Override: OverridePolicy{
			MaxTTLDays: 90,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:       "",
			Timeout:        30,
			StrictClaimIDs: true,
			MaxTokens:      1000,
		},
	}
}
