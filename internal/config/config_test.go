package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"paths": {
			"base_dir": "/data/nova-base",
			"overlay_dir": "/data/pezkuwi-overlay",
			"output_dir": "/data/out"
		},
		"preview": {
			"port": "9090"
		}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/nova-base", cfg.Paths.BaseDir)
	assert.Equal(t, "/data/pezkuwi-overlay", cfg.Paths.OverlayDir)
	assert.Equal(t, "/data/out", cfg.Paths.OutputDir)
	assert.Equal(t, "9090", cfg.Preview.Port)
	// Unset fields fall back to defaults.
	assert.Equal(t, "15m", cfg.Preview.CacheTTL)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("NOVA_BASE_DIR", "/env/base")
	t.Setenv("PEZKUWI_OVERLAY_DIR", "/env/overlay")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "/env/base", cfg.Paths.BaseDir)
	assert.Equal(t, "/env/overlay", cfg.Paths.OverlayDir)
	assert.Equal(t, ".", cfg.Paths.OutputDir)
	assert.Equal(t, "8080", cfg.Preview.Port)
}

func TestLoadOverlayManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`chains: custom/chains.json
xcm:
  static: custom/xcm.json
  dynamic: custom/xcm-dynamic.json
global_config: custom/overrides.json
`), 0o644))

	manifest, err := LoadOverlayManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "custom/chains.json", manifest.Chains)
	assert.Equal(t, "custom/xcm.json", manifest.XCM.Static)
	assert.Equal(t, "custom/xcm-dynamic.json", manifest.XCM.Dynamic)
	assert.Equal(t, "custom/overrides.json", manifest.GlobalConfig)
}

func TestLoadOverlayManifestPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chains: elsewhere.json\n"), 0o644))

	manifest, err := LoadOverlayManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.json", manifest.Chains)
	// Untouched entries keep the default layout.
	assert.Equal(t, DefaultOverlayManifest().XCM.Static, manifest.XCM.Static)
}

func TestLoadOverlayManifestMissingExplicitPath(t *testing.T) {
	_, err := LoadOverlayManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
