package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgs(t *testing.T) {
	assert.Equal(t, []string{"-t", "types.csv", "--target", "out"}, normalizeArgs([]string{"-t", "types.csv", "-td", "out"}))
	assert.Equal(t, []string{"--target=out", "-r"}, normalizeArgs([]string{"-td=out", "-r"}))
	assert.Equal(t, []string{"-d", "out"}, normalizeArgs([]string{"-d", "out"}))
	assert.Equal(t, []string{"validate", "--", "-td"}, normalizeArgs([]string{"validate", "--", "-td"}))
	assert.Empty(t, normalizeArgs(nil))
}

func TestGenerateFlags(t *testing.T) {
	flags := rootCmd.Flags()
	for _, name := range []string{"types", "attributes", "target", "retailer", "validate", "concurrency", "strict", "legacy-rename", "metrics-file", "skip-unchanged", "dry-run"} {
		assert.NotNil(t, flags.Lookup(name), name)
		assert.NotNil(t, configCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "t", flags.Lookup("types").Shorthand)
	assert.Equal(t, "a", flags.Lookup("attributes").Shorthand)
	assert.Equal(t, "d", flags.Lookup("target").Shorthand)
	assert.Equal(t, "r", flags.Lookup("retailer").Shorthand)
}
