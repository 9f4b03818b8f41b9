// Package compose stitches two panel images side by side into one
// full-sheet raster at the paper's native resolution.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/smartwish/print-agent/pkg/paper"
)

// CompositionError reports a failure in the image-processing backend.
type CompositionError struct {
	Path string
	Err  error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("composition failed for %s: %v", e.Path, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// Composite builds one full-sheet raster from two source images. Both
// sources are resized to exactly panel size with a fill fit (aspect ratio is
// not preserved); the left source lands at (0,0) and the right source at
// (panelWidth,0) on an opaque white canvas.
func Composite(outputPath, leftPath, rightPath string, cfg paper.Config) error {
	left, err := loadImage(leftPath)
	if err != nil {
		return &CompositionError{Path: leftPath, Err: err}
	}
	right, err := loadImage(rightPath)
	if err != nil {
		return &CompositionError{Path: rightPath, Err: err}
	}

	sheet := image.NewRGBA(image.Rect(0, 0, cfg.WidthPx, cfg.HeightPx))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	leftRect := image.Rect(0, 0, cfg.PanelWidthPx, cfg.PanelHeightPx)
	rightRect := image.Rect(cfg.PanelWidthPx, 0, cfg.PanelWidthPx*2, cfg.PanelHeightPx)
	xdraw.CatmullRom.Scale(sheet, leftRect, left, left.Bounds(), xdraw.Src, nil)
	xdraw.CatmullRom.Scale(sheet, rightRect, right, right.Bounds(), xdraw.Src, nil)

	if err := saveImage(outputPath, sheet); err != nil {
		return &CompositionError{Path: outputPath, Err: err}
	}
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		return png.Encode(f, img)
	}
}
