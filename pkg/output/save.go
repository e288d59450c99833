package output

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when an output path has neither a .png nor a .ppm extension
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Save writes img to path, choosing the encoder from the file extension.
// The caption is only drawn on PNG output. Missing parent directories are created.
func Save(path string, img image.Image, caption string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".ppm" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if ext == ".png" {
		return SavePNG(path, img, caption)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePPM(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
