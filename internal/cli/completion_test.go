package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionBashGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenBashCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "# bash completion for rtop")
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "complete -o default -F __start_rtop rtop")
	assert.Contains(t, output, "_rtop_snapshot()")
	assert.Contains(t, output, "_rtop_monitor()")
	assert.Contains(t, output, "_rtop_completion()")

	assert.Equal(t, strings.Count(output, "{"), strings.Count(output, "}"), "braces should be balanced")
}

func TestCompletionZshGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenZshCompletion(&buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "#compdef rtop")
	assert.Contains(t, buf.String(), "_rtop()")
}

func TestCompletionFishGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenFishCompletion(&buf, true)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fish completion for rtop")
	assert.Contains(t, buf.String(), "complete -c rtop")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenPowerShellCompletion(&buf)

	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(buf.String()), "powershell completion")
	assert.Contains(t, buf.String(), "Register-ArgumentCompleter")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestSnapshotCommandValidArgs(t *testing.T) {
	assert.Equal(t, []string{"fibers", "pool", "actors"}, snapshotCmd.ValidArgs)
	assert.Error(t, snapshotCmd.Args(snapshotCmd, []string{"threads"}))
	assert.Error(t, snapshotCmd.Args(snapshotCmd, nil))
	assert.NoError(t, snapshotCmd.Args(snapshotCmd, []string{"pool"}))
}
