// -- cmd/root_test.go --
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersServeCommand(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
}

func TestVersionIsSet(t *testing.T) {
	require.NotEmpty(t, Version)
	assert.Equal(t, Version, rootCmd.Version)
}
