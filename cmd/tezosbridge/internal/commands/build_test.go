package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tezosbridge/internal/deps"
)

func newBridgeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "src", "tezos_js_bridge.js"),
		[]byte(`module.exports = { ready: true };`),
		0600,
	))
	return root
}

func keepLogger(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })
}

func TestBuildCmd_Run(t *testing.T) {
	keepLogger(t)
	unsetNodePath(t)
	root := newBridgeProject(t)

	cmd := &BuildCmd{
		ProjectFlags: ProjectFlags{Root: root},
		Metafile:     "scripts/meta.json",
		Archive:      true,
	}
	require.NoError(t, cmd.Run(context.Background(), &Globals{Version: "test"}))

	bundle := filepath.Join(root, "scripts", "tezos_js_bridge.bundle.js")
	assert.FileExists(t, bundle)
	assert.FileExists(t, bundle+".zst")
	assert.FileExists(t, filepath.Join(root, "scripts", "meta.json"))
}

func TestBuildCmd_MetafileDisabled(t *testing.T) {
	keepLogger(t)
	unsetNodePath(t)
	root := newBridgeProject(t)

	cmd := &BuildCmd{ProjectFlags: ProjectFlags{Root: root, Dev: true}}
	require.NoError(t, cmd.Run(context.Background(), &Globals{}))

	assert.FileExists(t, filepath.Join(root, "scripts", "tezos_js_bridge.bundle.js"))
	assert.NoFileExists(t, filepath.Join(root, "scripts", "meta.json"))
}

func TestBuildCmd_InstallWithoutManifest(t *testing.T) {
	keepLogger(t)
	root := newBridgeProject(t)

	cmd := &BuildCmd{ProjectFlags: ProjectFlags{Root: root}, Install: true}
	err := cmd.Run(context.Background(), &Globals{})
	require.ErrorIs(t, err, deps.ErrNoManifest)
	assert.NoFileExists(t, filepath.Join(root, "scripts", "tezos_js_bridge.bundle.js"))
}

func TestBuildCmd_MissingSource(t *testing.T) {
	keepLogger(t)
	unsetNodePath(t)

	cmd := &BuildCmd{ProjectFlags: ProjectFlags{Root: t.TempDir()}}
	err := cmd.Run(context.Background(), &Globals{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build bundle")
}

func TestUnderRoot(t *testing.T) {
	assert.Equal(t, "/srv/bridge/scripts/meta.json", underRoot("/srv/bridge", "scripts/meta.json"))
	assert.Equal(t, "/tmp/meta.json", underRoot("/srv/bridge", "/tmp/meta.json"))
	assert.Equal(t, "", underRoot("/srv/bridge", ""))
}
