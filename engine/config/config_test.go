package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 60.0, c.Physics.StepsPerSecond)
	assert.Equal(t, 5, c.Physics.MaxSubSteps)
	assert.Equal(t, float32(45), c.Camera.Fov)
	assert.Equal(t, "info", c.Log.Level)
}

func TestDecodeOverridesOnlyGivenKeys(t *testing.T) {
	src := `
[window]
title = "boxes"
width = 800

[physics]
gravity = [0.0, -1.62, 0.0]

[camera]
position = [1.0, 2.0, 3.0]
mouse_interval = "5ms"

[render]
shader_dir = "shaders"
hot_reload = true

[scene]
script = "scene.go"
preload = ["a.obj", "b.xml"]

[log]
level = "debug"
`
	c, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "boxes", c.Window.Title)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height, "untouched key keeps its default")
	assert.Equal(t, [3]float32{0, -1.62, 0}, c.Physics.Gravity)
	assert.Equal(t, 60.0, c.Physics.StepsPerSecond)
	assert.Equal(t, [3]float32{1, 2, 3}, c.Camera.Position)
	assert.Equal(t, 5*time.Millisecond, c.Camera.MouseInterval.Duration)
	assert.True(t, c.Render.HotReload)
	assert.Equal(t, []string{"a.obj", "b.xml"}, c.Scene.Preload)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[window]\ntitel = \"x\"\n",
		"bad type":     "[window]\nwidth = \"wide\"\n",
		"bad duration": "[log]\nprofile_interval = \"soon\"\n",
		"bad fov":      "[camera]\nfov = 190.0\n",
		"bad level":    "[log]\nlevel = \"loud\"\n",
		"far < near":   "[camera]\nnear = 5.0\nfar = 1.0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			assert.Error(t, err)
		})
	}

	_, err := Decode(strings.NewReader("[physics]\nsteps_per_second = 0.0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Default()
	c.Scene.Preload = []string{"m.obj"}
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scene]\nworkers = 2\n"), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Scene.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
