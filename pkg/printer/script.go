package printer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/smartwish/print-agent/pkg/logging"
)

const scriptTimeout = 120 * time.Second

// scriptStrategy shells out to a site-provided helper script that knows how
// to talk to the local print stack with tray selection. Like the raster
// tool, it only runs for tray jobs.
type scriptStrategy struct {
	scriptPath string
	log        *logging.Logger
}

func newScriptStrategy(scriptPath string, log *logging.Logger) *scriptStrategy {
	if scriptPath == "" {
		scriptPath = defaultScriptPath()
	}
	return &scriptStrategy{scriptPath: scriptPath, log: log}
}

func (s *scriptStrategy) Name() string { return "tray-script" }

func (s *scriptStrategy) TrayCapable() bool { return true }

func (s *scriptStrategy) Available(opts Options) bool {
	if opts.TrayNumber <= 0 {
		return false
	}
	info, err := os.Stat(s.scriptPath)
	return err == nil && !info.IsDir()
}

func (s *scriptStrategy) Attempt(ctx context.Context, doc, printerName string, opts Options) error {
	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	paperType := opts.PaperType
	if paperType == "" {
		paperType = "greeting-card"
	}

	var cmd *exec.Cmd
	args := []string{printerName, doc, strconv.Itoa(opts.TrayNumber), paperType}
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "powershell", append([]string{"-ExecutionPolicy", "Bypass", "-File", s.scriptPath}, args...)...)
	} else {
		cmd = exec.CommandContext(ctx, "/bin/sh", append([]string{s.scriptPath}, args...)...)
	}

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("print script timed out after %v", scriptTimeout)
	}
	if err != nil {
		return fmt.Errorf("print script failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// defaultScriptPath resolves scripts/print-tray next to the running binary.
func defaultScriptPath() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("scripts", scriptName())
	}
	return filepath.Join(filepath.Dir(exe), "scripts", scriptName())
}

func scriptName() string {
	if runtime.GOOS == "windows" {
		return "print-tray.ps1"
	}
	return "print-tray.sh"
}
