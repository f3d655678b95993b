package snapshot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/RoboRadar/internal/fault"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{"a.png": PNG, "b.PNG": PNG, "dir/c.webp": WebP} {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Fatalf("FormatFor(%q): expected %s, got %s (%v)", path, want, got, err)
		}
	}
	if _, err := FormatFor("d.gif"); !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDownsample_SolidStaysSolid(t *testing.T) {
	c := color.RGBA{R: 200, G: 10, B: 30, A: 255}
	out := Downsample(solid(40, 20, c), 10, 5)
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 5 {
		t.Fatalf("expected 10x5, got %v", out.Bounds())
	}
	got := out.RGBAAt(5, 2)
	if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
		t.Fatalf("expected about %v, got %v", c, got)
	}
}

func TestDownsample_SameSizeIsIdentity(t *testing.T) {
	img := solid(4, 4, color.RGBA{A: 255})
	if Downsample(img, 4, 4) != img {
		t.Fatalf("expected the same image back")
	}
}

func TestWriteFile_PNG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "frame.png")
	c := color.RGBA{G: 255, A: 255}
	if err := WriteFile(p, solid(8, 6, c)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("expected 8x6, got %v", img.Bounds())
	}
}

func TestEncode_WebPHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, solid(8, 8, color.RGBA{R: 255, A: 255}), WebP); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Fatalf("expected a RIFF/WEBP container, got % x", b[:min(len(b), 12)])
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
