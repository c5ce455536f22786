package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWav(t *testing.T, path string, sampleRate, samples int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           make([]int, samples*2),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 2},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	t.Chdir(t.TempDir())

	cmd := RootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "none"}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestPlayFiles_NullDriver(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	writeWav(t, a, 8000, 80)
	writeWav(t, b, 16000, 160)

	start := time.Now()
	_, err := run(t, "--driver", "null", "--channel", "3", a, b)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestPlayFiles_Errors(t *testing.T) {
	_, err := run(t, "--driver", "null", filepath.Join(t.TempDir(), "missing.wav"))
	require.ErrorContains(t, err, "failed to open")

	_, err = run(t, "--channel", "40", "x.wav")
	require.ErrorContains(t, err, "channel must be between")

	_, err = run(t)
	require.Error(t, err, "at least one file is required")
}

func TestSfxConstants(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sfx.json"),
		[]byte(`[{"Id": "door-open", "Variations": []}, {"Id": "ui_click", "Variations": []}]`), 0o644))

	out, err := run(t, "sfx-constants", dir)
	require.NoError(t, err)
	assert.Equal(t, "const (\n\tDoorOpen sfx.Id = \"door-open\"\n\tUiClick sfx.Id = \"ui_click\"\n)\n", out)
}
