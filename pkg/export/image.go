// Package export persists rendered images and placed scene geometry.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for image formats FileEncoder cannot write.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Formats lists the image formats FileEncoder accepts.
var Formats = []string{"png", "bmp", "tiff"}

// FileEncoder writes images as <Dir>/<name>.<Format>.
type FileEncoder struct {
	Dir    string
	Format string // png (default), bmp or tiff
}

// NewFileEncoder validates format and returns an encoder writing into dir.
func NewFileEncoder(dir, format string) (*FileEncoder, error) {
	f, err := normalizeFormat(format)
	if err != nil {
		return nil, err
	}
	return &FileEncoder{Dir: dir, Format: f}, nil
}

func normalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	switch f {
	case "", "png":
		return "png", nil
	case "bmp":
		return "bmp", nil
	case "tif", "tiff":
		return "tiff", nil
	}
	return "", fmt.Errorf("%q (want one of %s): %w", format, strings.Join(Formats, ", "), ErrUnsupportedFormat)
}

// Path returns the file an image called name is written to.
func (e *FileEncoder) Path(name string) string {
	f, err := normalizeFormat(e.Format)
	if err != nil {
		f = e.Format
	}
	return filepath.Join(e.Dir, name+"."+f)
}

// Encode implements render.ImageEncoder.
func (e *FileEncoder) Encode(ctx context.Context, name string, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	format, err := normalizeFormat(e.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := e.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeImage(f, format, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.LogVf("Wrote %s", path)
	return nil
}

func encodeImage(w io.Writer, format string, img image.Image) error {
	switch format {
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return png.Encode(w, img)
	}
}
