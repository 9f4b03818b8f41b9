// Package paper maps paper-size identifiers to the pixel and point geometry
// of a two-panel (2-up side-by-side) card sheet.
package paper

// DPI is the raster resolution shared by every preset.
const DPI = 300

// PointsPerInch is the PDF unit conversion factor.
const PointsPerInch = 72

// Config holds the derived geometry for one full sheet. A sheet is split
// into two panels side by side: each panel is half the sheet width and the
// full sheet height.
type Config struct {
	Name          string
	WidthPx       int
	HeightPx      int
	WidthPt       float64
	HeightPt      float64
	PanelWidthPx  int
	PanelHeightPx int
}

func fromInches(name string, widthIn, heightIn float64) Config {
	wPx := int(widthIn * DPI)
	hPx := int(heightIn * DPI)
	return Config{
		Name:          name,
		WidthPx:       wPx,
		HeightPx:      hPx,
		WidthPt:       widthIn * PointsPerInch,
		HeightPt:      heightIn * PointsPerInch,
		PanelWidthPx:  wPx / 2,
		PanelHeightPx: hPx,
	}
}

// Resolve returns the geometry for a paper-size identifier. Unrecognized
// identifiers fall back to the custom 8x6in preset; Resolve never fails.
func Resolve(paperSize string) Config {
	switch paperSize {
	case "letter":
		return fromInches("letter", 11, 8.5)
	case "half-letter":
		return fromInches("half-letter", 8.5, 5.5)
	default:
		return fromInches("custom", 8, 6)
	}
}
