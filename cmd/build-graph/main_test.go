package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunFailsOnUnknownFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"--not-a-flag"}))
}

func TestRunFailsOnMissingRequiredConfig(t *testing.T) {
	assert.Equal(t, 2, run([]string{"--bundle", "", "--morphology", "", "--out", ""}))
}

func TestRunFailsOnMissingManifest(t *testing.T) {
	assert.NotEqual(t, 0, run([]string{
		"--bundle", ".", "--morphology", ".", "--out", "out.cbor.zst",
		"--config", "/does/not/exist.yaml",
	}))
}
