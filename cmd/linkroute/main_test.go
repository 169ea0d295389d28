package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkroute/export"
)

const basicScene = "../../scene/testdata/basic.yaml"

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newCLI().run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRoute_ASCII(t *testing.T) {
	out, errOut, err := runCLI(t, "route", basicScene)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "▶")
	assert.NotContains(t, out, "\x1b[")
	assert.Empty(t, errOut)

	// route is the default command
	again, _, err := runCLI(t, basicScene)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRoute_JSON(t *testing.T) {
	out, _, err := runCLI(t, "route", "--format", "json", basicScene)
	require.NoError(t, err)

	var dump export.Dump
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	require.Len(t, dump.Routes, 2)
	assert.Equal(t, "a-b", dump.Routes[0].Link)
}

func TestRoute_Overrides(t *testing.T) {
	out, _, err := runCLI(t, "--bend-cost", "0", "--step", "5", "route", "-f", "yaml", basicScene)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "step: 5\n"), out)

	_, _, err = runCLI(t, "--step", "0", "route", basicScene)
	assert.Error(t, err)
}

func TestRoute_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.txt")
	out, _, err := runCLI(t, "route", "-o", path, "--color", basicScene)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\x1b[")
}

func TestRoute_VerboseAndDump(t *testing.T) {
	_, errOut, err := runCLI(t, "--verbose", "--dump", "route", basicScene)
	require.NoError(t, err)
	assert.Contains(t, errOut, "level=DEBUG")
	assert.Contains(t, errOut, "LinkID")
	assert.Contains(t, errOut, "# Obstacles (padding=0")
}

func TestRoute_Check(t *testing.T) {
	_, errOut, err := runCLI(t, "route", "--check", "--obstacles", basicScene)
	require.NoError(t, err)
	assert.NotContains(t, errOut, "drawing defect")
}

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.png")
	_, _, err := runCLI(t, "png", "-o", path, "--scale", "1", basicScene)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 200)
}

func TestRun_Errors(t *testing.T) {
	_, _, err := runCLI(t, "route", "does-not-exist.yaml")
	assert.Error(t, err)

	_, _, err = runCLI(t, "route", "--format", "mermaid", basicScene)
	assert.Error(t, err)

	_, _, err = runCLI(t, "png", basicScene)
	assert.Error(t, err, "png requires an output file")
}
