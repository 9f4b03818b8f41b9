package printer

import (
	"context"
	"fmt"

	ipp "github.com/phin1x/go-ipp"

	"github.com/smartwish/print-agent/pkg/config"
	"github.com/smartwish/print-agent/pkg/logging"
)

// IPP attribute values for the generic print path.
const (
	sidesOneSided       = "one-sided"
	sidesTwoSidedShort  = "two-sided-short-edge"
	colorModeColor      = "color"
	printScalingNone    = "none"
	attrSides           = "sides"
	attrPrintColorMode  = "print-color-mode"
	attrPrintScaling    = "print-scaling"
)

// IPPPrintClient is the slice of go-ipp's client the strategies need;
// *ipp.IPPClient satisfies it.
type IPPPrintClient interface {
	PrintFile(filePath, printerName string, jobAttributes map[string]interface{}) (int, error)
}

func newIPPClient(cfg *config.Config) IPPPrintClient {
	return ipp.NewIPPClient(cfg.IPPHost, cfg.IPPPort, "", "", false)
}

// ippStrategy submits the document over IPP. The normal form applies
// duplex, color and no-scaling job attributes; the bare form sends only the
// document and printer name, leaving every setting at the printer default.
// The bare form is the last resort when the attributed submission is
// rejected.
type ippStrategy struct {
	client IPPPrintClient
	bare   bool
	log    *logging.Logger
}

func (s *ippStrategy) Name() string {
	if s.bare {
		return "ipp-bare"
	}
	return "ipp"
}

func (s *ippStrategy) Available(Options) bool { return true }

func (s *ippStrategy) Attempt(ctx context.Context, doc, printerName string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var attrs map[string]interface{}
	if !s.bare {
		attrs = jobAttributes(opts)
	}

	jobID, err := s.client.PrintFile(doc, printerName, attrs)
	if err != nil {
		return fmt.Errorf("ipp print failed: %w", err)
	}
	s.log.Debug(fmt.Sprintf("IPP job %d submitted", jobID),
		map[string]interface{}{"printer": printerName, "bare": s.bare})
	return nil
}

func jobAttributes(opts Options) map[string]interface{} {
	sides := sidesTwoSidedShort
	if opts.Simplex() {
		sides = sidesOneSided
	}
	return map[string]interface{}{
		attrSides:          sides,
		attrPrintColorMode: colorModeColor,
		attrPrintScaling:   printScalingNone,
	}
}
