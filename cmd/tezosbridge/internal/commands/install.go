package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wolfeidau/tezosbridge/internal/deps"
)

type InstallCmd struct {
	Root     string `help:"project root containing package.json" default:"." env:"TEZOSBRIDGE_ROOT"`
	Command  string `help:"package manager binary" default:"npm"`
	Attempts uint   `help:"attempts before giving up" default:"3"`
}

func (i *InstallCmd) Run(ctx context.Context, globals *Globals) error {
	setupLogging(globals)

	root, err := filepath.Abs(i.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}

	installer := &deps.Installer{
		Root:     root,
		Command:  i.Command,
		Attempts: i.Attempts,
	}
	return installer.Install(ctx)
}
