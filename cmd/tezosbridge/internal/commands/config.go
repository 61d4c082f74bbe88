package commands

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type ConfigCmd struct {
	ProjectFlags `embed:""`

	Format string    `help:"output format" default:"yaml" enum:"yaml,json"`
	Out    io.Writer `kong:"-"`
}

func (c *ConfigCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := c.assemble()
	if err != nil {
		return err
	}

	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	switch c.Format {
	case "", "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return unsupportedFormat(c.Format)
	}
}
