package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
musicalStructure:
  totalDurationSeconds: 210.5
  totalBars: 64
`)
	p, err := Load(path)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(210.5, p.MusicalStructure.TotalDurationSeconds)
	assert.Equal(64, p.MusicalStructure.TotalBars)
	assert.InDelta(3.289, p.SecondsPerBar(), 0.001)
}

func TestLoadRejectsMissingDuration(t *testing.T) {
	path := writeConfig(t, `
musicalStructure:
  totalBars: 64
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsZeroBars(t *testing.T) {
	path := writeConfig(t, `
musicalStructure:
  totalDurationSeconds: 100
  totalBars: 0
`)
	_, err := Load(path)
	assert.Error(t, err)
}
