package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dstreamkit/internal/logger"
)

func TestRootVersion(t *testing.T) {
	assert.Equal(t, version, rootCmd.Version)
}

func TestLogDir_WritesDatedFile(t *testing.T) {
	resetFlags()
	t.Cleanup(func() {
		logger.Close()
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	dir := t.TempDir()
	rootCmd.SetArgs([]string{"--log-dir", dir, "lookup", "dstream.steady_algo", "4", "6"})
	_, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	name := filepath.Join(dir, "dstreamctl-"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), "command started")
	assert.Contains(t, string(data), "dstreamctl lookup")
}
