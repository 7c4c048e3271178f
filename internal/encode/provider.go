// Package encode turns a finished frame sequence into an encoded
// animation and writes it to storage. The simulation core has no
// knowledge of container formats; this package is its only consumer.
package encode

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Provider encodes an ordered frame sequence with a fixed per-frame
// duration into a container format.
type Provider interface {
	// Encode returns the encoded animation bytes.
	Encode(frames []image.Image, frameDuration time.Duration) ([]byte, error)

	// ContentType returns the MIME type of the encoded output.
	ContentType() string
}

// Resolve picks a provider from an output path's extension.
func Resolve(path string) (Provider, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gif":
		return GIFProvider{}, nil
	case ".webp":
		// No pure-Go animated WebP encoder exists; keep the original
		// CLI surface but fail with a clear message.
		return nil, fmt.Errorf("encode: webp output is not supported, use .gif")
	default:
		return nil, fmt.Errorf("encode: unsupported output format %q, use .gif", ext)
	}
}

// Write persists encoded bytes, creating parent directories as needed.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("encode: cannot create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("encode: cannot write %s: %w", path, err)
	}
	return nil
}
