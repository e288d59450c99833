package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/google/go-cmp/cmp"
)

// createTestImage returns a 2x2 image with distinct pixels
func createTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 181, G: 255, B: 0, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n" +
		"181 255 0\n" +
		"1 2 3\n" +
		"0 0 0\n" +
		"255 255 255\n"

	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("PPM mismatch (-want +got):\n%s", diff)
	}
}

func TestWritePPM_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 6))
	img.SetRGBA(5, 5, color.RGBA{R: 9, A: 255})

	var buf bytes.Buffer
	if err := WritePPM(&buf, img); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[1] != "3 1" {
		t.Errorf("Expected dimensions '3 1', got %q", lines[1])
	}
	if len(lines) != 3+3 {
		t.Errorf("Expected 6 lines, got %d", len(lines))
	}
	if lines[3] != "9 0 0" {
		t.Errorf("Expected first pixel '9 0 0', got %q", lines[3])
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePPM_WriteError(t *testing.T) {
	if err := WritePPM(failingWriter{}, createTestImage()); err == nil {
		t.Error("Expected write error to propagate")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := createTestImage()

	t.Run("png", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "render.png")
		if err := Save(path, img, ""); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := gg.LoadPNG(path)
		if err != nil {
			t.Fatalf("Failed to load saved PNG: %v", err)
		}
		if loaded.Bounds() != img.Bounds() {
			t.Errorf("Expected bounds %v, got %v", img.Bounds(), loaded.Bounds())
		}
		r, g, b, _ := loaded.At(1, 0).RGBA()
		if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
			t.Errorf("Pixel (1,0) not preserved: %d %d %d", r>>8, g>>8, b>>8)
		}
	})

	t.Run("ppm", func(t *testing.T) {
		path := filepath.Join(dir, "render.ppm")
		if err := Save(path, img, "ignored"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read PPM: %v", err)
		}
		if !strings.HasPrefix(string(data), "P3\n2 2\n255\n181 255 0\n") {
			t.Errorf("Unexpected PPM content: %q", data)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		err := Save(filepath.Join(dir, "render.jpg"), img, "")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestAnnotate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	dc := Annotate(img, "pass 3 | 16 spp")
	out := dc.Image()

	if out.Bounds() != img.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", img.Bounds(), out.Bounds())
	}

	// The band darkens the bottom-right corner; the top stays white
	r, _, _, _ := out.At(199, 59).RGBA()
	if r>>8 >= 255 {
		t.Errorf("Expected darkened caption band, got red %d", r>>8)
	}
	r, _, _, _ = out.At(199, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("Expected untouched top edge, got red %d", r>>8)
	}

	// The source image is not modified
	if img.Pix[len(img.Pix)-4] != 255 {
		t.Error("Annotate should not draw on the source image")
	}
}
