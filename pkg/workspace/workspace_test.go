package workspace

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartwish/print-agent/pkg/logging"
)

func quietLogger() *logging.Logger {
	log := logging.NewLogger(logging.ERROR, false)
	log.SetOutput(io.Discard)
	return log
}

func TestManagerCreateAndRemove(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "jobs"), quietLogger())

	ws, err := m.Create("job-42")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := os.Stat(ws.Dir); err != nil {
		t.Fatalf("workspace dir missing: %v", err)
	}

	artifact := ws.Path("card.pdf")
	if filepath.Dir(artifact) != ws.Dir {
		t.Errorf("Path() = %s, want child of %s", artifact, ws.Dir)
	}
	if err := os.WriteFile(artifact, []byte("pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	m.Remove(ws)
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("workspace still present after Remove: %v", err)
	}
}

func TestManagerRemoveTolerantOfMissingDir(t *testing.T) {
	m := NewManager(t.TempDir(), quietLogger())
	m.Remove(&Workspace{Dir: filepath.Join(t.TempDir(), "never-created")})
	m.Remove(nil)
}

func TestSweeperRemovesStaleWorkspaces(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root, quietLogger())

	stale, err := m.Create("stale-job")
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale.Dir, old, old); err != nil {
		t.Fatal(err)
	}

	fresh, err := m.Create("fresh-job")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSweeper(SweeperConfig{Enabled: true, Retention: 24 * time.Hour, SweepInterval: time.Hour}, m, quietLogger())
	if got := s.SweepNow(); got != 1 {
		t.Errorf("SweepNow() = %d, want 1", got)
	}

	if _, err := os.Stat(stale.Dir); !os.IsNotExist(err) {
		t.Error("stale workspace should have been removed")
	}
	if _, err := os.Stat(fresh.Dir); err != nil {
		t.Errorf("fresh workspace should survive: %v", err)
	}
}

func TestSweeperMissingRootIsNoop(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent"), quietLogger())
	s := NewSweeper(DefaultSweeperConfig(), m, quietLogger())
	if got := s.SweepNow(); got != 0 {
		t.Errorf("SweepNow() = %d, want 0", got)
	}
}
