package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir, true)
	require.NoError(t, err)

	log.Debug("hello from test")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(filepath.Join(dir, "sqlpilot.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello from test")
}

func TestNew_DebugOff_SuppressesDebug(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir, false)
	require.NoError(t, err)

	log.Debug("should not appear")
	log.Warn("should appear")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(filepath.Join(dir, "sqlpilot.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "should not appear")
	assert.Contains(t, string(raw), "should appear")
}

func TestNew_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := New(dir, false)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
