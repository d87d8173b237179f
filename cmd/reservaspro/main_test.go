package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"serve", "migrate", "sweep-rewards"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	sweep, _, err := root.Find([]string{"sweep-rewards"})
	require.NoError(t, err)
	assert.NotNil(t, sweep.Flags().Lookup("batch-size"))
}
