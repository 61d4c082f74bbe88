// Package buildconfig assembles the bundle configuration for the tezos JS
// bridge from the process environment and the caller's flags.
//
// Assembly is pure: it performs no I/O and cannot fail. Everything except the
// build mode and the module search path override is a fixed literal.
package buildconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// NodePathEnv names the environment variable holding the module search path
// override. Nix shells set it to the store path of the node_modules closure.
const NodePathEnv = "NODE_PATH"

const (
	// BridgeEntry is the logical name of the single bundle produced.
	BridgeEntry = "tezos_js_bridge"

	bridgeSource    = "./src/tezos_js_bridge.js"
	filenamePattern = "[name].bundle.js"
	outputDirName   = "scripts"
	namePlaceholder = "[name]"
)

type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

type Target string

// TargetNode builds for a server side node runtime rather than a browser.
const TargetNode Target = "node"

// Flags is the option set handed to the assembler by the invoking tool.
type Flags struct {
	Dev bool
}

// Config is one build's configuration. It is never mutated after Assemble
// returns it.
type Config struct {
	EntryPoints           map[string]string `json:"entry_points" yaml:"entry_points"`
	OutputFilenamePattern string            `json:"output_filename_pattern" yaml:"output_filename_pattern"`
	OutputDirectory       string            `json:"output_directory" yaml:"output_directory"`
	Mode                  Mode              `json:"mode" yaml:"mode"`
	Target                Target            `json:"target" yaml:"target"`
	// ResolutionSearchPaths is nil unless the NODE_PATH override is set.
	ResolutionSearchPaths []string `json:"resolution_search_paths,omitempty" yaml:"resolution_search_paths,omitempty"`

	root string
}

// Root returns the project directory the configuration was assembled for.
// A Config built by hand has no recorded root; the parent of an absolute
// output directory stands in for it.
func (c Config) Root() string {
	if c.root == "" && filepath.IsAbs(c.OutputDirectory) {
		return filepath.Dir(c.OutputDirectory)
	}
	return c.root
}

// BundleFilename returns the output file name for the named entry.
func (c Config) BundleFilename(name string) string {
	return strings.ReplaceAll(c.OutputFilenamePattern, namePlaceholder, name)
}

// BundlePath returns the absolute path the named entry is written to.
func (c Config) BundlePath(name string) string {
	return filepath.Join(c.OutputDirectory, c.BundleFilename(name))
}

// EntryNames returns the entry names in a stable order.
func (c Config) EntryNames() []string {
	names := make([]string, 0, len(c.EntryPoints))
	for name := range c.EntryPoints {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Assembler produces a Config for a fixed project root.
type Assembler struct {
	// Root is the absolute project directory; the output directory and
	// relative entry paths hang off it.
	Root string
	// LookupEnv reads the environment, os.LookupEnv when nil.
	LookupEnv func(key string) (string, bool)
}

// New returns an assembler reading the real process environment. A relative
// root is made absolute against the current working directory.
func New(root string) (*Assembler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return &Assembler{Root: abs, LookupEnv: os.LookupEnv}, nil
}

// Assemble builds the configuration for flags and the current environment.
func (a *Assembler) Assemble(flags Flags) Config {
	cfg := Config{
		EntryPoints: map[string]string{
			BridgeEntry: bridgeSource,
		},
		OutputFilenamePattern: filenamePattern,
		OutputDirectory:       filepath.Join(a.Root, outputDirName),
		Mode:                  cond(flags.Dev, ModeDevelopment, ModeProduction),
		Target:                TargetNode,
		root:                  a.Root,
	}

	if p, ok := a.nodePath(); ok {
		cfg.ResolutionSearchPaths = []string{p}
	}

	return cfg
}

func (a *Assembler) nodePath() (string, bool) {
	lookup := a.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	p, ok := lookup(NodePathEnv)
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
