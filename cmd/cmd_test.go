package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyPathFlagsAreRejectedWithHint(t *testing.T) {
	assert := assert.New(t)

	err := RunSync(SyncOptions{})
	assert.ErrorContains(err, "--noteheads is required")
	assert.ErrorContains(err, "PROJECT_NAME")

	err = RunExtract("", "", "")
	assert.ErrorContains(err, "--input is required")

	err = RunResolve("", "", "", false)
	assert.ErrorContains(err, "--input is required")
}

func TestRequirePathPassesNonEmptyValue(t *testing.T) {
	assert.NoError(t, requirePath("input", "score.json"))
}
