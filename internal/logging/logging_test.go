package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	for _, file := range []string{"", "-"} {
		logger, err := New(Options{File: file})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(-1))
		logger.Info("dropped")
	}
}

func TestWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limetred.log")
	logger, err := New(Options{File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("swap")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "swap", entry["msg"])
	assert.Equal(t, "limetred", entry["app"])
}

func TestVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, err := New(Options{File: path, Verbose: true})
	require.NoError(t, err)

	logger.Debug("tick")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tick"`)
}

func TestBadPath(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
