package bundler

import "errors"

var (
	// ErrNoEntryPoints is returned when the configuration names no entries.
	ErrNoEntryPoints = errors.New("no entry points configured")

	// ErrBuildFailed is returned when esbuild reports one or more errors.
	ErrBuildFailed = errors.New("esbuild failed with errors")

	// ErrNotBuilt is returned when metadata is requested before a build.
	ErrNotBuilt = errors.New("bundle not built yet, call Build() first")

	// ErrEntryNotFound is returned for an entry missing from the metafile.
	ErrEntryNotFound = errors.New("entry not found in metadata")
)

// BuildMetadata is the subset of the esbuild metafile the pipeline reads.
type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	Bytes      int          `json:"bytes"`
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
}

type ImportInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Options controls the housekeeping around a build.
type Options struct {
	// MetafilePath is where the esbuild metafile is written, skipped when empty.
	MetafilePath string
	// Archive writes a zstd compressed copy next to each bundle.
	Archive bool
	// KeepLegalComments leaves the extracted license files in place.
	KeepLegalComments bool
}

// Bundle describes one produced artifact.
type Bundle struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Bytes       int64  `json:"bytes" yaml:"bytes"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	ArchivePath string `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`
}

// Result is returned by a successful build.
type Result struct {
	Bundles  []Bundle
	Metadata *BuildMetadata
	Warnings []string
}
