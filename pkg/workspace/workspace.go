// Package workspace manages per-job scratch directories. Every print job
// gets its own directory for downloaded sources and rendered artifacts, and
// the directory is removed when the job finishes regardless of outcome.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartwish/print-agent/pkg/logging"
)

// Workspace is a job-scoped scratch directory.
type Workspace struct {
	Dir string
}

// Path returns the absolute path for a named artifact inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Manager creates and removes job workspaces under a common root.
type Manager struct {
	root string
	log  *logging.Logger
}

func NewManager(root string, log *logging.Logger) *Manager {
	return &Manager{root: root, log: log}
}

// Root returns the directory all workspaces live under.
func (m *Manager) Root() string {
	return m.root
}

// Create makes a fresh workspace directory for the given job.
func (m *Manager) Create(jobID string) (*Workspace, error) {
	dir := filepath.Join(m.root, jobID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace for job %s: %w", jobID, err)
	}
	return &Workspace{Dir: dir}, nil
}

// Remove deletes a workspace and everything in it. Removal failures are
// logged, not returned: a leftover scratch dir must never fail a job.
func (m *Manager) Remove(ws *Workspace) {
	if ws == nil || ws.Dir == "" {
		return
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		m.log.Warn("Failed to remove workspace", map[string]interface{}{
			"dir":   ws.Dir,
			"error": err.Error(),
		})
	}
}
