package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["download"])
	assert.True(t, names["update"])
	assert.True(t, names["version"])
}

func TestSourceFilter_AtMostOneArg(t *testing.T) {
	for _, name := range []string{"download", "update"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)

		assert.NoError(t, cmd.Args(cmd, nil))
		assert.NoError(t, cmd.Args(cmd, []string{"owner/repo"}))
		assert.Error(t, cmd.Args(cmd, []string{"owner/repo", "extra"}))
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
}
