// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"context"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenecap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", c.ProjectRoot)
	assert.Equal(t, 1920, c.Width)
	assert.Equal(t, 1080, c.Height)
	assert.Equal(t, 100*time.Millisecond, c.PollInterval)
	assert.Equal(t, 50, c.PollAttempts())
	assert.Equal(t, ".prefab", c.TemplateExt)
	assert.Len(t, c.Options(), 4)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, `
project_root: /work/game
width: 800
height: 600
poll_interval: 50ms
poll_max_wait: 1s
backdrop: "#102030"
log_level: debug
`)
	t.Setenv("SCENECAP_HEIGHT", "400")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/work/game", c.ProjectRoot)
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 400, c.Height, "environment wins over the file")
	assert.Equal(t, 20, c.PollAttempts())

	bg, err := c.backdrop()
	require.NoError(t, err)
	want := color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}
	assert.InDelta(t, want.R, bg.R, 1)
	assert.InDelta(t, want.G, bg.G, 1)
	assert.InDelta(t, want.B, bg.B, 1)
	assert.Equal(t, want.A, bg.A)
	assert.Len(t, c.Options(), 5)

	var buf bytes.Buffer
	log := c.Logger(&buf)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	log.Debug("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"size", "width: 0\n", "must be positive"},
		{"interval", "poll_interval: 0s\n", "poll_interval"},
		{"max wait", "poll_max_wait: 10ms\n", "shorter than"},
		{"backdrop", "backdrop: red\n", "not a hex color"},
		{"level", "log_level: loud\n", "log_level"},
		{"format", "log_format: xml\n", "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	c := &Config{LogLevel: "info", LogFormat: "json"}
	var buf bytes.Buffer
	c.Logger(&buf).Info("captured", "path", "x.png")
	assert.Contains(t, buf.String(), `"path":"x.png"`)
}
