package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tezosbridge/internal/deps"
)

func TestInstallCmd_NoManifest(t *testing.T) {
	keepLogger(t)

	cmd := &InstallCmd{Root: t.TempDir(), Command: "npm", Attempts: 1}
	err := cmd.Run(context.Background(), &Globals{})
	require.ErrorIs(t, err, deps.ErrNoManifest)
}
