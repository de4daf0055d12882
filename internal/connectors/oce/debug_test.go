package oce

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.json"), []byte("{}"), 0o644))

	d := NewDebugDir(dir)

	t.Run("reset clears stale dumps", func(t *testing.T) {
		require.NoError(t, d.Reset(true))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("dump writes indented json", func(t *testing.T) {
		require.NoError(t, d.Dump("CONT1", map[string]any{"id": "CONT1"}))

		data, err := os.ReadFile(filepath.Join(dir, "CONT1.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  \"id\"")

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "CONT1", got["id"])
	})

	t.Run("reset without create removes directory", func(t *testing.T) {
		require.NoError(t, d.Reset(false))
		_, err := os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})
}
