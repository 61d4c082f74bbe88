package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tezosbridge/internal/bundler"
	"github.com/wolfeidau/tezosbridge/internal/deps"
)

type BuildCmd struct {
	ProjectFlags `embed:""`

	Install           bool   `help:"run npm install before bundling" default:"false" env:"TEZOSBRIDGE_INSTALL"`
	InstallAttempts   uint   `help:"attempts for npm install" default:"3"`
	Metafile          string `help:"esbuild metafile path, relative to root; empty disables" default:"scripts/meta.json"`
	Archive           bool   `help:"write a zstd compressed copy of each bundle" default:"false"`
	KeepLegalComments bool   `help:"keep the extracted license comment files" default:"false"`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	setupLogging(globals)

	cfg, err := b.assemble()
	if err != nil {
		return err
	}

	if b.Install {
		installer := &deps.Installer{Root: cfg.Root(), Attempts: b.InstallAttempts}
		if err := installer.Install(ctx); err != nil {
			return fmt.Errorf("failed to install dependencies: %w", err)
		}
	}

	started := time.Now()

	pipeline := bundler.New(cfg, bundler.Options{
		MetafilePath:      underRoot(cfg.Root(), b.Metafile),
		Archive:           b.Archive,
		KeepLegalComments: b.KeepLegalComments,
	})

	result, err := pipeline.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build bundle: %w", err)
	}

	log.Info().
		Int("bundles", len(result.Bundles)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", time.Since(started)).
		Msg("Build complete")

	return nil
}
