package bundler

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

const archiveSuffix = ".zst"

// archiveBundle writes a zstd compressed copy of the bundle next to it and
// returns the archive path. The bundle itself is left in place.
func archiveBundle(bundlePath string) (string, error) {
	src, err := os.Open(bundlePath)
	if err != nil {
		return "", fmt.Errorf("failed to open bundle: %w", err)
	}
	defer src.Close()

	srcInfo, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat bundle: %w", err)
	}
	originalSize := srcInfo.Size()

	archivePath := bundlePath + archiveSuffix
	dst, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer dst.Close()

	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", fmt.Errorf("failed to create encoder: %w", err)
	}
	defer enc.Close()

	if _, err := io.Copy(enc, src); err != nil {
		discardArchive(archivePath, enc, dst)
		return "", fmt.Errorf("failed to compress: %w", err)
	}

	// flushes the final frame
	if err := enc.Close(); err != nil {
		discardArchive(archivePath, dst)
		return "", fmt.Errorf("failed to close encoder: %w", err)
	}

	if err := dst.Close(); err != nil {
		discardArchive(archivePath)
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	dstInfo, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	log.Info().
		Int64("original_bytes", originalSize).
		Int64("compressed_bytes", dstInfo.Size()).
		Str("archive_path", archivePath).
		Msg("Bundle archived with zstd compression")

	return archivePath, nil
}

// discardArchive closes whatever is still open, in order, then removes the
// partial archive.
func discardArchive(archivePath string, closers ...io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("archive_path", archivePath).Msg("Failed to close during archive cleanup")
		}
	}
	if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("archive_path", archivePath).Msg("Failed to remove partial archive")
	}
}
