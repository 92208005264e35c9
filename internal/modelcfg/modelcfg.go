// Package modelcfg loads an optional YAML file that overrides the built-in
// model capability table and price list. The file is validated against an
// embedded JSON schema before anything is applied, so a typo'd rate or
// usage style fails at startup instead of mispricing requests.
package modelcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tanmodi/oorja-backend/internal/llm"
	"github.com/tanmodi/oorja-backend/internal/pricing"
)

// Entry describes one model in the file: capabilities plus rates.
type Entry struct {
	ID                    string  `yaml:"id"`
	SupportsTemperature   bool    `yaml:"supports_temperature"`
	UsageStyle            string  `yaml:"usage_style"`
	InputPerMillion       float64 `yaml:"input_per_million"`
	CachedInputPerMillion float64 `yaml:"cached_input_per_million"`
	OutputPerMillion      float64 `yaml:"output_per_million"`
}

// File is the decoded models file.
type File struct {
	DefaultModel string  `yaml:"default_model"`
	Models       []Entry `yaml:"models"`
}

// Load reads, schema-validates, and decodes a models file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read models file: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("models file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode models file: %w", err)
	}
	return &f, nil
}

// Apply overlays the file onto a registry and price table, returning the
// rebuilt registry (profiles are ordered as listed in the file) and the
// merged table.
func (f *File) Apply(base *llm.Registry, table *pricing.Table) (*llm.Registry, *pricing.Table) {
	profiles := make([]llm.ModelProfile, 0, len(f.Models))
	overrides := make(map[string]pricing.Rates, len(f.Models))
	for _, e := range f.Models {
		style := llm.UsageStyle(e.UsageStyle)
		if style == "" {
			style = llm.UsagePromptCompletion
		}
		profiles = append(profiles, llm.ModelProfile{
			ID:                  e.ID,
			SupportsTemperature: e.SupportsTemperature,
			UsageStyle:          style,
		})
		overrides[e.ID] = pricing.Rates{
			InputPerMillion:       e.InputPerMillion,
			CachedInputPerMillion: e.CachedInputPerMillion,
			OutputPerMillion:      e.OutputPerMillion,
		}
	}

	def := f.DefaultModel
	if def == "" && base != nil {
		def = base.Default().ID
	}
	reg := llm.NewRegistry(profiles, def)
	if table == nil {
		table = pricing.NewTable(overrides, def)
	} else {
		table.Merge(overrides)
	}
	return reg, table
}
