// Package bundler runs esbuild for an assembled build configuration and
// tidies the output directory afterwards.
package bundler

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tezosbridge/internal/buildconfig"
)

// legalSuffixes are the side files holding license comments extracted from
// a bundle.
var legalSuffixes = []string{".LEGAL.txt", ".LICENSE.txt"}

// Pipeline manages the bundle build and the metadata it produced.
type Pipeline struct {
	config   buildconfig.Config
	opts     Options
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a pipeline for the given configuration.
func New(config buildconfig.Config, opts Options) *Pipeline {
	return &Pipeline{
		config: config,
		opts:   opts,
	}
}

// Build runs esbuild with the configured settings and loads metadata
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := p.config.EntryNames()
	if len(names) == 0 {
		return nil, ErrNoEntryPoints
	}

	log.Info().
		Strs("entrypoints", names).
		Str("mode", string(p.config.Mode)).
		Strs("node_paths", p.config.ResolutionSearchPaths).
		Msg("Building bundle")

	result := api.Build(p.config.BuildOptions())

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return nil, fmt.Errorf("%w: %s", ErrBuildFailed, result.Errors[0].Text)
	}

	warnings := make([]string, 0, len(result.Warnings))
	for _, msg := range result.Warnings {
		log.Warn().Str("warning", msg.Text).Msg("Build warning")
		warnings = append(warnings, msg.Text)
	}

	for _, file := range result.OutputFiles {
		log.Debug().Str("file", file.Path).Msg("Built file")
	}

	if p.opts.MetafilePath != "" {
		if err := writeMetafile(p.opts.MetafilePath, result.Metafile); err != nil {
			return nil, err
		}
	}

	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metafile: %w", err)
	}
	p.metadata = &metadata

	bundles := make([]Bundle, 0, len(names))
	for _, name := range names {
		bundle, err := p.finish(name)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, bundle)
	}

	return &Result{
		Bundles:  bundles,
		Metadata: &metadata,
		Warnings: warnings,
	}, nil
}

// finish applies the post build steps to one written bundle.
func (p *Pipeline) finish(name string) (Bundle, error) {
	bundlePath := p.config.BundlePath(name)

	if !p.opts.KeepLegalComments {
		if err := pruneLegalFiles(bundlePath); err != nil {
			return Bundle{}, err
		}
	}

	size, fingerprint, err := fingerprintFile(bundlePath)
	if err != nil {
		return Bundle{}, err
	}

	bundle := Bundle{
		Name:        name,
		Path:        bundlePath,
		Bytes:       size,
		Fingerprint: fingerprint,
	}

	if p.opts.Archive {
		archivePath, err := archiveBundle(bundlePath)
		if err != nil {
			return Bundle{}, err
		}
		bundle.ArchivePath = archivePath
	}

	log.Info().
		Str("name", name).
		Str("path", bundlePath).
		Int64("bytes", size).
		Str("fingerprint", fingerprint).
		Msg("Built bundle")

	return bundle, nil
}

// Scripts returns the bundle for the named entry followed by every chunk it
// imports, each once, as absolute paths.
func (p *Pipeline) Scripts(entryName string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, ErrNotBuilt
	}

	want := p.config.BundleFilename(entryName)

	for outputPath, info := range p.metadata.Outputs {
		if path.Base(outputPath) != want || info.EntryPoint == "" {
			continue
		}
		scripts := []string{p.abs(outputPath)}
		visited := map[string]bool{outputPath: true}
		p.addDependencies(info, &scripts, visited)
		return scripts, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryName)
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		chunkInfo, exists := p.metadata.Outputs[imp.Path]
		if !exists || visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, p.abs(imp.Path))
		p.addDependencies(chunkInfo, scripts, visited)
	}
}

// abs resolves a metafile path, which esbuild writes relative to the
// working directory.
func (p *Pipeline) abs(outputPath string) string {
	if filepath.IsAbs(outputPath) {
		return outputPath
	}
	return filepath.Join(p.config.Root(), filepath.FromSlash(outputPath))
}

func writeMetafile(metafilePath, metafile string) error {
	if err := os.MkdirAll(filepath.Dir(metafilePath), 0755); err != nil {
		return fmt.Errorf("failed to create metafile directory: %w", err)
	}
	if err := os.WriteFile(metafilePath, []byte(metafile), 0600); err != nil {
		return fmt.Errorf("failed to write metafile: %w", err)
	}
	return nil
}

func pruneLegalFiles(bundlePath string) error {
	for _, suffix := range legalSuffixes {
		legalPath := bundlePath + suffix
		err := os.Remove(legalPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to remove legal comments file: %w", err)
		}
		log.Debug().Str("file", legalPath).Msg("Removed legal comments file")
	}
	return nil
}

// fingerprintFile returns the size and the base58 encoded SHA-256 of a file.
func fingerprintFile(filePath string) (int64, string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, "", fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	n, err := io.Copy(hash, f)
	if err != nil {
		return 0, "", fmt.Errorf("failed to hash bundle: %w", err)
	}

	return n, base58.Encode(hash.Sum(nil)), nil
}
