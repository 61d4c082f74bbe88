package buildconfig

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// BuildOptions maps the configuration onto esbuild options. Resolution,
// minification and the mode dependent behaviour are left to esbuild.
// Relative entry paths resolve against Root, so a Config should come from
// Assemble or carry an absolute OutputDirectory.
func (c Config) BuildOptions() api.BuildOptions {
	entries := make([]api.EntryPoint, 0, len(c.EntryPoints))
	for _, name := range c.EntryNames() {
		entries = append(entries, api.EntryPoint{
			InputPath: c.EntryPoints[name],
			// esbuild appends the extension itself
			OutputPath: strings.TrimSuffix(c.BundleFilename(name), ".js"),
		})
	}

	production := c.Mode == ModeProduction

	opts := api.BuildOptions{
		EntryPointsAdvanced: entries,
		AbsWorkingDir:       c.Root(),
		Outdir:              c.OutputDirectory,
		Bundle:              true,
		Write:               true,
		Metafile:            true,
		LogLevel:            api.LogLevelSilent,
		NodePaths:           c.ResolutionSearchPaths,
		MinifyWhitespace:    production,
		MinifyIdentifiers:   production,
		MinifySyntax:        production,
		Sourcemap:           cond(production, api.SourceMapNone, api.SourceMapInline),
		LegalComments:       cond(production, api.LegalCommentsExternal, api.LegalCommentsEndOfFile),
	}

	if c.Target == TargetNode {
		opts.Platform = api.PlatformNode
		opts.Format = api.FormatCommonJS
	}

	return opts
}
