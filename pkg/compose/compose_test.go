package compose

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartwish/print-agent/pkg/paper"
)

// smallSheet keeps test canvases tiny; Composite only reads the geometry
// fields, so a hand-built config is enough.
func smallSheet() paper.Config {
	return paper.Config{
		Name:          "test",
		WidthPx:       80,
		HeightPx:      40,
		PanelWidthPx:  40,
		PanelHeightPx: 40,
	}
}

func writeSolidPNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestCompositePlacesPanels(t *testing.T) {
	dir := t.TempDir()
	leftPath := filepath.Join(dir, "left.png")
	rightPath := filepath.Join(dir, "right.png")
	outPath := filepath.Join(dir, "sheet.png")

	red := color.RGBA{R: 200, A: 255}
	blue := color.RGBA{B: 200, A: 255}
	// Deliberately mismatched aspect ratios: fill mode must stretch both.
	writeSolidPNG(t, leftPath, 10, 30, red)
	writeSolidPNG(t, rightPath, 50, 5, blue)

	cfg := smallSheet()
	if err := Composite(outPath, leftPath, rightPath, cfg); err != nil {
		t.Fatalf("Composite() error: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheet, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	bounds := sheet.Bounds()
	if bounds.Dx() != cfg.WidthPx || bounds.Dy() != cfg.HeightPx {
		t.Fatalf("sheet size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), cfg.WidthPx, cfg.HeightPx)
	}

	// Sample panel centers, away from scaler edge blending.
	lr, _, _, _ := sheet.At(cfg.PanelWidthPx/2, cfg.HeightPx/2).RGBA()
	if lr < 0x8000 {
		t.Errorf("left panel center is not red-dominant (r=%#x)", lr)
	}
	_, _, rb, _ := sheet.At(cfg.PanelWidthPx+cfg.PanelWidthPx/2, cfg.HeightPx/2).RGBA()
	if rb < 0x8000 {
		t.Errorf("right panel center is not blue-dominant (b=%#x)", rb)
	}

	// The red panel must not bleed across the split.
	_, _, b, _ := sheet.At(cfg.PanelWidthPx+2, cfg.HeightPx/2).RGBA()
	r, _, _, _ := sheet.At(cfg.PanelWidthPx+2, cfg.HeightPx/2).RGBA()
	if b < r {
		t.Errorf("pixel just right of the split should be blue-dominant (r=%#x b=%#x)", r, b)
	}
}

func TestCompositeMissingSource(t *testing.T) {
	dir := t.TempDir()
	rightPath := filepath.Join(dir, "right.png")
	writeSolidPNG(t, rightPath, 4, 4, color.RGBA{A: 255})

	err := Composite(filepath.Join(dir, "out.png"), filepath.Join(dir, "absent.png"), rightPath, smallSheet())
	if err == nil {
		t.Fatal("expected error for missing source image")
	}
	var compErr *CompositionError
	if !errors.As(err, &compErr) {
		t.Errorf("expected *CompositionError, got %T", err)
	}
}

func TestCompositeCorruptSource(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(badPath, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	goodPath := filepath.Join(dir, "good.png")
	writeSolidPNG(t, goodPath, 4, 4, color.RGBA{A: 255})

	var compErr *CompositionError
	err := Composite(filepath.Join(dir, "out.png"), badPath, goodPath, smallSheet())
	if !errors.As(err, &compErr) {
		t.Errorf("expected *CompositionError for corrupt input, got %v", err)
	}
}
