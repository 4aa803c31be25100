package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
	})

	require.Nil(t, setupLogging(&Config{}))

	path := filepath.Join(t.TempDir(), "dxgmr.log")
	f := setupLogging(&Config{LogFile: path})
	require.NotNil(t, f)
	slog.Debug("node created", "id", 1)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "node created")
}
