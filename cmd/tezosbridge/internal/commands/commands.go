package commands

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tezosbridge/internal/buildconfig"
	"github.com/wolfeidau/tezosbridge/internal/logger"
)

type Globals struct {
	Debug   bool
	Version string
}

// ProjectFlags locate the project and carry the flag object handed to the
// configuration assembler.
type ProjectFlags struct {
	Root string `help:"project root containing src/ and package.json" default:"." env:"TEZOSBRIDGE_ROOT"`
	Dev  bool   `help:"development mode: no minification, inline source maps" default:"false"`
}

func (p ProjectFlags) assemble() (buildconfig.Config, error) {
	assembler, err := buildconfig.New(p.Root)
	if err != nil {
		return buildconfig.Config{}, err
	}
	return assembler.Assemble(buildconfig.Flags{Dev: p.Dev}), nil
}

// setupLogging installs the global logger tagged with a fresh invocation id.
func setupLogging(globals *Globals) {
	l := logger.Setup(globals.Debug)
	log.Logger = l.With().
		Str("invocation_id", uuid.NewString()).
		Str("version", globals.Version).
		Logger()
}

// underRoot resolves p against root unless it is already absolute.
func underRoot(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func unsupportedFormat(format string) error {
	return fmt.Errorf("unsupported output format %q", format)
}
