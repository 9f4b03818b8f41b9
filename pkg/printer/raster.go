package printer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/smartwish/print-agent/pkg/logging"
)

const rasterToolTimeout = 60 * time.Second

// rasterToolStrategy drives the direct raster-print tool. It exists for
// tray selection, so it is skipped entirely when no tray is requested or
// the tool is not installed.
type rasterToolStrategy struct {
	locator ToolLocator
	log     *logging.Logger
}

func newRasterToolStrategy(locator ToolLocator, log *logging.Logger) *rasterToolStrategy {
	return &rasterToolStrategy{locator: locator, log: log}
}

func (s *rasterToolStrategy) Name() string { return "raster-tool" }

func (s *rasterToolStrategy) TrayCapable() bool { return true }

func (s *rasterToolStrategy) Available(opts Options) bool {
	if opts.TrayNumber <= 0 {
		return false
	}
	_, found := s.locator.Locate(sumatraTool)
	return found
}

func (s *rasterToolStrategy) Attempt(ctx context.Context, doc, printerName string, opts Options) error {
	toolPath, found := s.locator.Locate(sumatraTool)
	if !found {
		return fmt.Errorf("%s not installed", sumatraTool)
	}

	ctx, cancel := context.WithTimeout(ctx, rasterToolTimeout)
	defer cancel()

	settings := buildPrintSettings(opts)
	cmd := exec.CommandContext(ctx, toolPath,
		"-print-to", printerName,
		"-print-settings", settings,
		"-silent",
		doc,
	)

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out after %v", sumatraTool, rasterToolTimeout)
	}
	if err != nil {
		return fmt.Errorf("%s exited with error: %w (output: %s)", sumatraTool, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// buildPrintSettings encodes duplexing, color, scaling and bin selection in
// the tool's comma-separated settings grammar.
func buildPrintSettings(opts Options) string {
	parts := make([]string, 0, 4)
	if opts.Simplex() {
		parts = append(parts, "simplex")
	} else {
		parts = append(parts, "duplexshort")
	}
	parts = append(parts, "color", "noscale")
	if opts.TrayNumber > 0 {
		parts = append(parts, fmt.Sprintf("bin=%d", opts.TrayNumber))
	}
	return strings.Join(parts, ",")
}
