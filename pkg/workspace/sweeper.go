package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/smartwish/print-agent/pkg/logging"
)

// SweeperConfig defines retention policy for orphaned workspaces.
type SweeperConfig struct {
	Enabled       bool
	Retention     time.Duration
	SweepInterval time.Duration
}

// DefaultSweeperConfig returns sensible defaults for orphan cleanup.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Enabled:       true,
		Retention:     24 * time.Hour,
		SweepInterval: time.Hour,
	}
}

// Sweeper periodically removes workspace directories left behind by a
// previous run, typically after a crash mid-job.
type Sweeper struct {
	config  SweeperConfig
	manager *Manager
	log     *logging.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	lastSweep time.Time
	removed   int64
}

// NewSweeper creates a sweeper over the manager's root directory.
func NewSweeper(config SweeperConfig, manager *Manager, log *logging.Logger) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		config:  config,
		manager: manager,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the periodic sweep.
func (s *Sweeper) Start() {
	if !s.config.Enabled {
		s.log.Info("Workspace sweeper disabled")
		return
	}

	s.log.Info("Starting workspace sweeper", map[string]interface{}{
		"root":      s.manager.Root(),
		"retention": s.config.Retention.String(),
		"interval":  s.config.SweepInterval.String(),
	})

	s.wg.Add(1)
	go s.loop()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	// One pass at startup picks up directories orphaned by a crash.
	s.SweepNow()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.SweepNow()
		}
	}
}

// SweepNow removes workspace directories older than the retention period.
// It returns the number of directories removed.
func (s *Sweeper) SweepNow() int {
	cutoff := time.Now().Add(-s.config.Retention)
	removed := 0

	entries, err := os.ReadDir(s.manager.Root())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Workspace sweep failed to read root", map[string]interface{}{
				"root":  s.manager.Root(),
				"error": err.Error(),
			})
		}
		return 0
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		dir := filepath.Join(s.manager.Root(), entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			s.log.Warn("Failed to remove orphaned workspace", map[string]interface{}{
				"dir":   dir,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}

	s.mu.Lock()
	s.lastSweep = time.Now()
	s.removed += int64(removed)
	s.mu.Unlock()

	if removed > 0 {
		s.log.Info("Removed orphaned workspaces", map[string]interface{}{
			"count": removed,
		})
	}
	return removed
}
