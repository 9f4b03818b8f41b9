// Package agent runs the print agent's polling loop: it claims pending jobs
// from the cloud queue, turns each one into a printable PDF, hands the PDF to
// the printer dispatcher and reports the outcome back.
package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/smartwish/print-agent/pkg/compose"
	"github.com/smartwish/print-agent/pkg/config"
	"github.com/smartwish/print-agent/pkg/logging"
	"github.com/smartwish/print-agent/pkg/metrics"
	"github.com/smartwish/print-agent/pkg/models"
	"github.com/smartwish/print-agent/pkg/paper"
	"github.com/smartwish/print-agent/pkg/pdfassemble"
	"github.com/smartwish/print-agent/pkg/printer"
	"github.com/smartwish/print-agent/pkg/resources"
	"github.com/smartwish/print-agent/pkg/workspace"
)

// QueueClient is the slice of the cloud queue API the orchestrator needs.
type QueueClient interface {
	ListJobs(ctx context.Context) ([]models.PrintJob, error)
	UpdateStatus(ctx context.Context, jobID string, status models.JobStatus, errMsg string) error
}

// Fetcher retrieves job sources into the workspace.
type Fetcher interface {
	Fetch(ctx context.Context, sourceRef, destPath string) error
	FetchPDF(ctx context.Context, url, destPath string) error
}

// Dispatcher sends a finished PDF to a physical printer.
type Dispatcher interface {
	Print(ctx context.Context, doc, printerName string, opts printer.Options) error
}

// InvalidJobError marks a job that carries neither a PDF URL nor a usable
// image set. Such jobs are reported failed and never retried.
type InvalidJobError struct {
	JobID string
}

func (e *InvalidJobError) Error() string {
	return fmt.Sprintf("job %s has no PDF URL and no valid image paths", e.JobID)
}

// Orchestrator owns the poll/claim/process cycle.
type Orchestrator struct {
	cfg        *config.Config
	queue      QueueClient
	fetcher    Fetcher
	dispatcher Dispatcher
	workspaces *workspace.Manager
	log        *logging.Logger
	exporter   *metrics.Exporter

	// artifact builders, injectable for tests
	composite func(outputPath, leftPath, rightPath string, cfg paper.Config) error
	assemble  func(outputPath, side1Path, side2Path string, cfg paper.Config) error
	diskSpace func(path string) (*resources.DiskSpaceInfo, error)

	// guards against overlapping ticks when a job outlives the poll interval
	tickMu sync.Mutex
}

// New wires an orchestrator from its collaborators.
func New(cfg *config.Config, q QueueClient, f Fetcher, d Dispatcher, ws *workspace.Manager, log *logging.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		queue:      q,
		fetcher:    f,
		dispatcher: d,
		workspaces: ws,
		log:        log,
		composite:  compose.Composite,
		assemble:   pdfassemble.Assemble,
		diskSpace:  resources.DiskSpace,
	}
}

// SetExporter attaches a metrics exporter. Optional.
func (o *Orchestrator) SetExporter(e *metrics.Exporter) {
	o.exporter = e
}

// Run polls the queue until ctx is cancelled. The first poll happens
// immediately, not after the first interval.
func (o *Orchestrator) Run(ctx context.Context) {
	o.log.Info("Print agent polling started", map[string]interface{}{
		"queue":    o.cfg.CloudServerURL,
		"interval": o.cfg.PollInterval.String(),
	})

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	o.runTick(ctx)
	for {
		select {
		case <-ctx.Done():
			o.log.Info("Print agent polling stopped")
			return
		case <-ticker.C:
			o.runTick(ctx)
		}
	}
}

// runTick executes one poll cycle unless the previous one is still going.
func (o *Orchestrator) runTick(ctx context.Context) {
	if !o.tickMu.TryLock() {
		o.log.Debug("Skipping poll, previous cycle still running")
		return
	}
	defer o.tickMu.Unlock()
	o.tick(ctx)
}

func (o *Orchestrator) tick(ctx context.Context) {
	if o.exporter != nil {
		o.exporter.Polled()
	}

	if info, err := o.diskSpace(o.workspaces.Root()); err == nil && info.Full(o.cfg.DiskLimitPercent) {
		o.log.Warn("Work volume near capacity, not claiming jobs", map[string]interface{}{
			"used_percent": fmt.Sprintf("%.1f", info.UsedPercent),
			"limit":        fmt.Sprintf("%.1f", o.cfg.DiskLimitPercent),
		})
		return
	}

	jobs, err := o.queue.ListJobs(ctx)
	if err != nil {
		if o.exporter != nil {
			o.exporter.PollError()
		}
		o.log.Error("Failed to list print jobs", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for i := range jobs {
		if jobs[i].Status != models.JobStatusPending {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		o.processJob(ctx, &jobs[i])
	}
}

// processJob runs a single job end to end. Failures are reported to the
// queue and never escape; one bad job must not take down the loop.
func (o *Orchestrator) processJob(ctx context.Context, job *models.PrintJob) {
	start := time.Now()
	if o.exporter != nil {
		o.exporter.SetActive(true)
		defer o.exporter.SetActive(false)
	}

	o.log.Info("Claiming print job", map[string]interface{}{
		"job_id":  job.ID,
		"printer": o.printerFor(job),
	})
	o.report(ctx, job.ID, models.JobStatusProcessing, "")

	ws, err := o.workspaces.Create(job.ID)
	if err != nil {
		o.finish(ctx, job.ID, start, err)
		return
	}
	defer o.workspaces.Remove(ws)

	doc, err := o.buildArtifact(ctx, job, ws)
	if err != nil {
		o.finish(ctx, job.ID, start, err)
		return
	}

	opts := printer.Options{
		TrayNumber: job.TrayNumber,
		PaperType:  job.PaperType,
	}
	if err := o.dispatcher.Print(ctx, doc, o.printerFor(job), opts); err != nil {
		o.finish(ctx, job.ID, start, err)
		return
	}

	o.finish(ctx, job.ID, start, nil)
}

// buildArtifact resolves the job into a single printable PDF inside the
// workspace. A pre-rendered PDF wins over the image pipeline.
func (o *Orchestrator) buildArtifact(ctx context.Context, job *models.PrintJob, ws *workspace.Workspace) (string, error) {
	pdfPath := ws.Path("card.pdf")

	if job.PDFURL != "" {
		if err := o.fetcher.FetchPDF(ctx, job.PDFURL, pdfPath); err != nil {
			return "", err
		}
		return pdfPath, nil
	}

	if !job.HasImageSet() {
		return "", &InvalidJobError{JobID: job.ID}
	}

	size := paper.Resolve(job.PaperSize)

	local := make([]string, len(job.ImagePaths))
	for i, ref := range job.ImagePaths {
		ext := filepath.Ext(ref)
		if ext == "" {
			ext = ".png"
		}
		local[i] = ws.Path(fmt.Sprintf("source-%d%s", i, ext))
		if err := o.fetcher.Fetch(ctx, ref, local[i]); err != nil {
			return "", err
		}
	}

	// Side 1 is the outside of the folded card: back panel left, front
	// panel right. Side 2 is the inside spread.
	side1 := ws.Path("side-1.png")
	side2 := ws.Path("side-2.png")
	if err := o.composite(side1, local[models.ImageBack], local[models.ImageFront], size); err != nil {
		return "", err
	}
	if err := o.composite(side2, local[models.ImageInsideRight], local[models.ImageInsideLeft], size); err != nil {
		return "", err
	}

	if err := o.assemble(pdfPath, side1, side2, size); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func (o *Orchestrator) printerFor(job *models.PrintJob) string {
	if job.PrinterName != "" {
		return job.PrinterName
	}
	return o.cfg.DefaultPrinter
}

// finish reports the terminal status and records metrics.
func (o *Orchestrator) finish(ctx context.Context, jobID string, start time.Time, jobErr error) {
	duration := time.Since(start)
	if jobErr == nil {
		o.log.Info("Print job completed", map[string]interface{}{
			"job_id":   jobID,
			"duration": duration.String(),
		})
		o.report(ctx, jobID, models.JobStatusCompleted, "")
		if o.exporter != nil {
			o.exporter.JobCompleted("completed", duration)
		}
		return
	}

	o.log.Error("Print job failed", map[string]interface{}{
		"job_id": jobID,
		"error":  jobErr.Error(),
	})
	o.report(ctx, jobID, models.JobStatusFailed, jobErr.Error())
	if o.exporter != nil {
		o.exporter.JobCompleted("failed", duration)
	}
}

// report pushes a status transition. Reporting failures are logged and
// swallowed so a flaky queue API cannot wedge job processing.
func (o *Orchestrator) report(ctx context.Context, jobID string, status models.JobStatus, errMsg string) {
	if err := o.queue.UpdateStatus(ctx, jobID, status, errMsg); err != nil {
		o.log.Warn("Failed to report job status", map[string]interface{}{
			"job_id": jobID,
			"status": string(status),
			"error":  err.Error(),
		})
	}
}
