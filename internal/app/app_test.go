package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/app"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const screenConfig = `{
  "gui": {"rotate": 0},
  "openhasp_config_manager": {"device": {"screen": {"width": 480, "height": 320}}},
}`

// newConfigRoot builds a configuration root with two devices sharing a
// common command script and image.
func newConfigRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "config")
	write(t, filepath.Join(root, "global.yaml"), "title: Home\n")
	write(t, filepath.Join(root, "common", "boot.cmd"), "backlight {{ device.name }}\n")
	write(t, filepath.Join(root, "common", "logo.png"), "png")

	write(t, filepath.Join(root, "devices", "kitchen", "config.json"), screenConfig)
	write(t, filepath.Join(root, "devices", "kitchen", "vars.yaml"), "title: Kitchen\n")
	write(t, filepath.Join(root, "devices", "kitchen", "home.jsonl"),
		`{"page": 1, "id": 1, "obj": "label", "text": "{{ title }}", "w": "50%"}`)

	write(t, filepath.Join(root, "devices", "hall", "config.json"), screenConfig)
	write(t, filepath.Join(root, "devices", "hall", "home.jsonl"),
		`{"page": 1, "id": 1, "obj": "label", "text": "{{ title }}"}`)
	return root
}

func TestGenerate(t *testing.T) {
	root := newConfigRoot(t)
	outDir := t.TempDir()
	a, logs := app.SetupAppTest(t, app.Config{ConfigDir: root, OutputDir: outDir, WorkerCount: 2})

	summary, err := a.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hall", "kitchen"}, summary.Devices)
	assert.Equal(t, 6, summary.Files)
	assert.Zero(t, summary.ObjectErrors)

	read := func(parts ...string) string {
		data, err := os.ReadFile(filepath.Join(append([]string{outDir}, parts...)...))
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, `{"id": 1, "obj": "label", "page": 1, "text": "Kitchen", "w": 240}`, read("kitchen", "home.jsonl"))
	assert.Equal(t, `{"id": 1, "obj": "label", "page": 1, "text": "Home"}`, read("hall", "home.jsonl"))
	assert.Equal(t, "backlight hall\n", read("hall", "boot.cmd"))
	assert.Equal(t, "png", read("kitchen", "logo.png"))

	assert.Contains(t, logs.String(), "Generation finished.")
}

func TestGenerate_DeviceFilter(t *testing.T) {
	root := newConfigRoot(t)
	outDir := t.TempDir()
	a, _ := app.SetupAppTest(t, app.Config{ConfigDir: root, OutputDir: outDir, Devices: []string{"kitchen"}})

	summary, err := a.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, summary.Devices)
	assert.NoDirExists(t, filepath.Join(outDir, "hall"))

	a, _ = app.SetupAppTest(t, app.Config{ConfigDir: root, OutputDir: outDir, Devices: []string{"garage"}})
	_, err = a.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `device "garage" not found`)
}

func TestGenerate_ObjectErrorsFailTheRun(t *testing.T) {
	root := newConfigRoot(t)
	write(t, filepath.Join(root, "devices", "hall", "home.jsonl"),
		"{\"page\": 1, \"id\": 1, \"x\": \"1x%\"}\n{\"page\": 1, \"id\": 2}")
	outDir := t.TempDir()
	a, _ := app.SetupAppTest(t, app.Config{ConfigDir: root, OutputDir: outDir})

	summary, err := a.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 objects failed post-processing")
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.ObjectErrors)

	data, err := os.ReadFile(filepath.Join(outDir, "hall", "home.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, `{"id": 2, "page": 1}`, string(data))
}

func TestGenerate_StalledTemplateFails(t *testing.T) {
	root := newConfigRoot(t)
	write(t, filepath.Join(root, "devices", "hall", "home.jsonl"), `{"page": 1, "id": 1, "text": "{{ missing }}"}`)
	a, _ := app.SetupAppTest(t, app.Config{ConfigDir: root, OutputDir: t.TempDir()})

	_, err := a.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device hall")
	assert.Contains(t, err.Error(), "unable to progress while rendering")
}

func TestVars(t *testing.T) {
	root := newConfigRoot(t)
	a, _ := app.SetupAppTest(t, app.Config{ConfigDir: root})

	v, err := a.Vars(context.Background(), "devices/kitchen/home.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", v["title"])
	assert.Equal(t, map[string]any{"name": "kitchen", "width": 480, "height": 320, "rotate": 0}, v["device"])

	v, err = a.Vars(context.Background(), "common/boot.cmd")
	require.NoError(t, err)
	assert.Equal(t, "Home", v["title"])
	assert.NotContains(t, v, "device")
}
