package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureDefaultLogger_File(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	path := filepath.Join(t.TempDir(), "ndsp.log")
	f, err := ConfigureDefaultLogger("warn", path, slog.HandlerOptions{})
	require.NoError(t, err)
	require.NotNil(t, f)

	slog.Info("dropped")
	slog.Warn("kept", "channel", 3)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.EqualValues(t, 3, entry["channel"])
}

func TestConfigureDefaultLogger_Levels(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	for _, level := range []string{"none", "error", "info", "debug"} {
		f, err := ConfigureDefaultLogger(level, "", slog.HandlerOptions{})
		require.NoError(t, err, level)
		assert.Nil(t, f)
	}
	_, err := ConfigureDefaultLogger("loud", "", slog.HandlerOptions{})
	require.ErrorContains(t, err, "loud")
}
