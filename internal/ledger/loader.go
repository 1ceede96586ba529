package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftgate/driftgate/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadLedger reads and decodes a claim ledger from a JSON or YAML file.
// The format is chosen by extension; anything that is not .yaml/.yml is
// treated as JSON.
func LoadLedger(path string) (*model.ClaimLedger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var ledger model.ClaimLedger
	if err := unmarshal(path, data, &ledger); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", path, err)
	}

	return &ledger, nil
}

// LoadOverrides reads the override file. A missing file is not an error:
// it means zero overrides.
func LoadOverrides(path string) (*model.OverridesFile, error) {
	if path == "" {
		return &model.OverridesFile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.OverridesFile{}, nil
		}
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var overrides model.OverridesFile
	if err := unmarshal(path, data, &overrides); err != nil {
		return nil, fmt.Errorf("decode overrides %s: %w", path, err)
	}

	return &overrides, nil
}

func unmarshal(path string, data []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}
