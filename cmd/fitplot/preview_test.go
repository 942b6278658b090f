//go:build !gnuplot

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPreviewWithoutGnuplot(t *testing.T) {
	path, _ := writeJob(t, false)
	now := time.Date(2024, time.May, 1, 9, 32, 0, 0, time.UTC)

	logpath, err := run(options{config: path, preview: true}, &bytes.Buffer{}, now)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(logpath, "preview.png"))
	assert.True(t, os.IsNotExist(err))

	logTxt, err := os.ReadFile(filepath.Join(logpath, "log.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(logTxt), "Preview saved")
}
