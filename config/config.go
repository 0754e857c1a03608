// Package config loads the per-project configuration that the timing
// extractor needs: how long the target audio recording actually is, and how
// many bars the score spans.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type MusicalStructure struct {
	TotalDurationSeconds float64 `yaml:"totalDurationSeconds"`
	TotalBars            int     `yaml:"totalBars"`
}

type Project struct {
	MusicalStructure MusicalStructure `yaml:"musicalStructure"`
}

// SecondsPerBar is reporting only; the linear mapping never uses it.
func (p *Project) SecondsPerBar() float64 {
	return p.MusicalStructure.TotalDurationSeconds / float64(p.MusicalStructure.TotalBars)
}

func (p *Project) validate() error {
	if p.MusicalStructure.TotalDurationSeconds <= 0 {
		return fmt.Errorf("musicalStructure.totalDurationSeconds must be positive, got %v",
			p.MusicalStructure.TotalDurationSeconds)
	}
	if p.MusicalStructure.TotalBars <= 0 {
		return fmt.Errorf("musicalStructure.totalBars must be positive, got %v",
			p.MusicalStructure.TotalBars)
	}
	return nil
}

func Load(path string) (*Project, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read project config: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(dat, &p); err != nil {
		return nil, fmt.Errorf("could not parse project config: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
