package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartwish/print-agent/pkg/agent"
	"github.com/smartwish/print-agent/pkg/config"
	"github.com/smartwish/print-agent/pkg/fetch"
	"github.com/smartwish/print-agent/pkg/logging"
	"github.com/smartwish/print-agent/pkg/metrics"
	"github.com/smartwish/print-agent/pkg/printer"
	"github.com/smartwish/print-agent/pkg/queue"
	"github.com/smartwish/print-agent/pkg/shutdown"
	"github.com/smartwish/print-agent/pkg/workspace"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the print agent",
	Long:  `Start the polling loop and process print jobs until interrupted.`,
	RunE:  runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	log, err := logging.NewFileLogger("print-agent", level, false)
	if err != nil {
		log = logging.NewLogger(level, false)
		log.Warn("File logging unavailable, logging to stdout only", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Starting print agent", map[string]interface{}{
		"queue":    cfg.CloudServerURL,
		"work_dir": cfg.WorkDir,
		"interval": cfg.PollInterval.String(),
	})

	logAvailablePrinters(cfg, log)

	workspaces := workspace.NewManager(cfg.WorkDir, log)
	sweeper := workspace.NewSweeper(workspace.DefaultSweeperConfig(), workspaces, log)
	sweeper.Start()

	queueClient := queue.NewClient(cfg.CloudServerURL, log)
	dispatcher := printer.NewDispatcher(cfg, log)

	exporter := metrics.NewExporter()
	dispatcher.SetObserver(exporter.PrintAttempt)

	orch := agent.New(cfg, queueClient, fetch.NewFetcher(), dispatcher, workspaces, log)
	orch.SetExporter(exporter)

	queueCheck := func() (string, string, bool) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := queueClient.ListJobs(ctx); err != nil {
			return "queue", "unreachable: " + err.Error(), false
		}
		return "queue", "reachable", true
	}
	metricsServer := metrics.NewServer(cfg.MetricsPort, exporter, log,
		metrics.DiskCheck(cfg.WorkDir, cfg.DiskLimitPercent),
		queueCheck,
	)
	metricsServer.Start()

	ctx, cancel := context.WithCancel(context.Background())

	sd := shutdown.New(30 * time.Second)
	sd.Register(shutdown.CloseResource(log, "log file"))
	sd.Register(func(context.Context) error {
		sweeper.Stop()
		return nil
	})
	sd.Register(metricsServer.Stop)
	sd.Register(func(context.Context) error {
		cancel()
		return nil
	})

	go orch.Run(ctx)

	sd.Wait()
	log.Info("Shutting down print agent")
	sd.Shutdown()
	return nil
}

// logAvailablePrinters lists printers visible to the agent at startup, so a
// misconfigured DEFAULT_PRINTER shows up in the log right away.
func logAvailablePrinters(cfg *config.Config, log *logging.Logger) {
	printers, err := printer.Enumerate(cfg)
	if err != nil {
		log.Warn("Could not enumerate printers", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(printers) == 0 {
		log.Warn("No printers found")
		return
	}
	for _, p := range printers {
		log.Info("Found printer", map[string]interface{}{
			"name":  p.Name,
			"state": p.State,
		})
	}
}
