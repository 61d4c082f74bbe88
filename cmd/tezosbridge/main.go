package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/tezosbridge/cmd/tezosbridge/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Build   commands.BuildCmd   `cmd:"" help:"Bundle the tezos JS bridge"`
		Config  commands.ConfigCmd  `cmd:"" help:"Print the assembled build configuration"`
		Install commands.InstallCmd `cmd:"" help:"Install npm dependencies"`
		Debug   bool                `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("tezosbridge"),
		kong.Description("Builds the JavaScript bridge bundle."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
