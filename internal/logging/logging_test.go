package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datatable/internal/config"
)

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		level, err := ParseLevel(s)
		require.NoError(t, err, s)
		require.Equal(t, want, level, s)
	}
	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "table", "users")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"table":"users"`)

	_, _, err = New(config.LogConfig{Format: "xml"}, &buf)
	require.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datatable.log")
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	logger.Info("loaded", "records", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=loaded records=3")
	require.Equal(t, buf.String(), string(data))
}
