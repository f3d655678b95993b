// Package snapshot exports rendered frames as image files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/Garsondee/RoboRadar/internal/fault"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// ErrUnknownFormat is returned for unsupported file extensions.
var ErrUnknownFormat = fmt.Errorf("%w: unknown snapshot format", fault.ErrConfiguration)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Downsample scales a supersampled frame to w x h with CatmullRom
// filtering. Frames are opaque so no alpha premultiplication is needed.
func Downsample(img image.Image, w, h int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		if rgba, ok := img.(*image.RGBA); ok {
			return rgba
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// WriteFile encodes img to path, choosing the format from its extension.
func WriteFile(path string, img image.Image) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("snapshot: %s: %w", path, err)
	}
	return out.Close()
}
