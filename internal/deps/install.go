// Package deps installs the npm dependencies of the bridge project before it
// is bundled.
package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	consolestream "github.com/wolfeidau/console-stream"
)

const (
	defaultCommand         = "npm"
	defaultAttempts        = 3
	defaultInitialInterval = time.Second
	manifestName           = "package.json"
)

var (
	// ErrNoManifest is returned when the project root has no package.json.
	ErrNoManifest = errors.New("package.json not found")

	// ErrInstallFailed is returned when the install command exits non-zero.
	ErrInstallFailed = errors.New("dependency install failed")
)

// Runner executes a command to completion and reports its exit code.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (int, error)
}

// Installer runs `npm install` for a project, retrying transient failures.
type Installer struct {
	Root            string
	Command         string
	Attempts        uint
	InitialInterval time.Duration
	Runner          Runner
}

// Install installs the project dependencies. A missing manifest or a command
// that cannot be found fails immediately; non-zero exits are retried.
func (i *Installer) Install(ctx context.Context) error {
	manifest := filepath.Join(i.Root, manifestName)
	if _, err := os.Stat(manifest); err != nil {
		return fmt.Errorf("%w: %s", ErrNoManifest, manifest)
	}

	command := cond(i.Command != "", i.Command, defaultCommand)
	args := []string{"--prefix", i.Root, "install"}
	runner := i.Runner
	if runner == nil {
		runner = ConsoleRunner{}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cond(i.InitialInterval > 0, i.InitialInterval, defaultInitialInterval)

	started := time.Now()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		exitCode, err := runner.Run(ctx, command, args)
		if errors.Is(err, exec.ErrNotFound) {
			return struct{}{}, backoff.Permanent(fmt.Errorf("failed to start %s: %w", command, err))
		}
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to run %s: %w", command, err)
		}
		if exitCode != 0 {
			return struct{}{}, fmt.Errorf("%w: %s exited with code %d", ErrInstallFailed, command, exitCode)
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(cond(i.Attempts > 0, i.Attempts, defaultAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("next_retry", next).Msg("Dependency install failed, will retry")
		}),
	)
	if err != nil {
		return err
	}

	log.Info().
		Str("root", i.Root).
		Dur("duration", time.Since(started)).
		Msg("Dependencies installed")

	return nil
}

// ConsoleRunner runs commands through console-stream, logging their output.
type ConsoleRunner struct{}

// Run resolves name on PATH first: console-stream reports start failures
// without wrapping the cause, so exec.ErrNotFound would otherwise be lost.
func (ConsoleRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	if _, err := exec.LookPath(name); err != nil {
		return -1, err
	}

	process := consolestream.NewProcess(name, args,
		consolestream.WithPipeMode(),
		consolestream.WithFlushInterval(500*time.Millisecond),
	)

	for event, err := range process.ExecuteAndStream(ctx) {
		if err != nil {
			return -1, err
		}

		switch e := event.Event.(type) {
		case *consolestream.OutputData:
			log.Debug().Str("command", name).Str("output", string(e.Data)).Msg("install output")
		case *consolestream.ProcessEnd:
			return e.ExitCode, nil
		}
	}

	return -1, fmt.Errorf("%s ended without an exit status", name)
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
