// Package pdfassemble embeds two full-sheet rasters as a two-page PDF whose
// pages are sized in points to the paper geometry. The rasters already match
// the page's pixel-to-point ratio by construction, so images are placed
// full-bleed with no scaling-to-fit logic.
package pdfassemble

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/smartwish/print-agent/pkg/paper"
)

// AssemblyError reports a failure while building or validating the PDF.
type AssemblyError struct {
	Path string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("pdf assembly failed for %s: %v", e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// Assemble writes a 2-page PDF to outputPath. Page 1 embeds the side-1
// raster, page 2 the side-2 raster, each stretched to the full page.
func Assemble(outputPath, side1Path, side2Path string, cfg paper.Config) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: cfg.WidthPt, Ht: cfg.HeightPt},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for _, side := range []string{side1Path, side2Path} {
		pdf.AddPage()
		opts := gofpdf.ImageOptions{ImageType: imageType(side), ReadDpi: false}
		pdf.ImageOptions(side, 0, 0, cfg.WidthPt, cfg.HeightPt, false, opts, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return &AssemblyError{Path: outputPath, Err: err}
	}

	// A malformed PDF fails the job here rather than at the printer.
	if err := api.ValidateFile(outputPath, model.NewDefaultConfiguration()); err != nil {
		return &AssemblyError{Path: outputPath, Err: fmt.Errorf("validation failed: %w", err)}
	}
	return nil
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	default:
		return "PNG"
	}
}
