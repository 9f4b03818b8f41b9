// Package printer submits finished documents to a physical printer through
// an ordered table of OS-level strategies, stopping at the first success.
package printer

import (
	"context"
	"fmt"

	"github.com/smartwish/print-agent/pkg/config"
	"github.com/smartwish/print-agent/pkg/logging"
	"github.com/smartwish/print-agent/pkg/models"
)

// Options carries per-job print settings.
type Options struct {
	// TrayNumber selects the printer bin. Zero means printer default tray;
	// strategies that exist only for tray selection are skipped.
	TrayNumber int
	// PaperType decides duplexing: sticker media prints simplex, every
	// other value (including empty) prints duplex flipped on the short
	// edge, matching the folded-card format.
	PaperType string
}

// Simplex reports whether the job must print single-sided.
func (o Options) Simplex() bool {
	return o.PaperType == models.PaperTypeSticker
}

// DispatchError is raised only after every strategy, including the
// last-resort bare print, has been exhausted.
type DispatchError struct {
	Printer string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("all print strategies failed for printer %s: %v", e.Printer, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Strategy is one mechanism for submitting a document to a printer.
// Strategies are tried in table order; Available gates strategies that only
// make sense for certain options or installed tooling.
type Strategy interface {
	Name() string
	Available(opts Options) bool
	Attempt(ctx context.Context, doc, printerName string, opts Options) error
}

// Dispatcher iterates the strategy table and reports success or a final
// DispatchError. Intermediate strategy failures are logged as warnings.
type Dispatcher struct {
	strategies []Strategy
	log        *logging.Logger

	// observe is called per attempt with the strategy name and outcome
	// ("ok" or "failed"); the metrics exporter hooks in here.
	observe func(strategy, outcome string)
}

// NewDispatcher builds the production strategy table:
//  1. direct raster-print tool with tray selection (tray jobs only)
//  2. helper script with tray selection (tray jobs only)
//  3. IPP print with duplex/color/no-scale settings
//  4. bare IPP print with all settings at printer defaults
func NewDispatcher(cfg *config.Config, log *logging.Logger) *Dispatcher {
	client := newIPPClient(cfg)
	locator := NewExecLocator()
	return New(log,
		newRasterToolStrategy(locator, log),
		newScriptStrategy(cfg.TrayPrintScript, log),
		&ippStrategy{client: client, log: log},
		&ippStrategy{client: client, bare: true, log: log},
	)
}

// New builds a dispatcher over an explicit strategy table.
func New(log *logging.Logger, strategies ...Strategy) *Dispatcher {
	return &Dispatcher{strategies: strategies, log: log}
}

// SetObserver registers a per-attempt callback.
func (d *Dispatcher) SetObserver(fn func(strategy, outcome string)) {
	d.observe = fn
}

// Print sends the document to the named printer. It walks the strategy
// table in order and returns nil on the first success.
func (d *Dispatcher) Print(ctx context.Context, doc, printerName string, opts Options) error {
	var lastErr error
	attempted := false

	for _, s := range d.strategies {
		if !s.Available(opts) {
			d.log.Debug(fmt.Sprintf("Print strategy %s unavailable, skipping", s.Name()),
				map[string]interface{}{"printer": printerName})
			continue
		}

		// Tray selection is only honored by the tray-capable strategies;
		// reaching the generic path with a tray requested deserves a
		// warning, not a failure.
		if opts.TrayNumber > 0 && !trayCapable(s) {
			d.log.Warn(fmt.Sprintf("Tray %d requested but strategy %s cannot select trays; tray selection may not apply",
				opts.TrayNumber, s.Name()))
		}

		attempted = true
		err := s.Attempt(ctx, doc, printerName, opts)
		if err == nil {
			d.record(s.Name(), "ok")
			d.log.Info(fmt.Sprintf("Printed %s via %s", doc, s.Name()),
				map[string]interface{}{"printer": printerName})
			return nil
		}

		d.record(s.Name(), "failed")
		d.log.Warn(fmt.Sprintf("Print strategy %s failed: %v", s.Name(), err),
			map[string]interface{}{"printer": printerName})
		lastErr = err
	}

	if !attempted {
		lastErr = fmt.Errorf("no print strategy available")
	}
	return &DispatchError{Printer: printerName, Err: lastErr}
}

func (d *Dispatcher) record(strategy, outcome string) {
	if d.observe != nil {
		d.observe(strategy, outcome)
	}
}

func trayCapable(s Strategy) bool {
	type trayCapabler interface{ TrayCapable() bool }
	if tc, ok := s.(trayCapabler); ok {
		return tc.TrayCapable()
	}
	return false
}
