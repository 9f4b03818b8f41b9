package printer

import (
	"os"
	"os/exec"
)

// ToolLocator resolves helper executables used by print strategies. Tests
// substitute a fake locator; production probes well-known install paths and
// then PATH.
type ToolLocator interface {
	Locate(tool string) (string, bool)
}

// sumatraTool is the direct raster-print tool used for tray selection. Its
// -print-settings string drives duplexing, color, scaling and bin choice.
const sumatraTool = "SumatraPDF"

var wellKnownPaths = map[string][]string{
	sumatraTool: {
		`C:\Program Files\SumatraPDF\SumatraPDF.exe`,
		`C:\Program Files (x86)\SumatraPDF\SumatraPDF.exe`,
		`C:\Users\Public\SumatraPDF\SumatraPDF.exe`,
	},
}

// ExecLocator probes well-known install paths, then falls back to PATH.
type ExecLocator struct {
	candidates map[string][]string
}

// NewExecLocator returns a locator over the built-in install-path table.
func NewExecLocator() *ExecLocator {
	return &ExecLocator{candidates: wellKnownPaths}
}

// Locate returns the first existing candidate path for tool, or looks the
// tool up on PATH. The second return is false when the tool is not
// installed; callers treat that as "strategy unavailable", not an error.
func (l *ExecLocator) Locate(tool string) (string, bool) {
	for _, candidate := range l.candidates[tool] {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	if path, err := exec.LookPath(tool); err == nil {
		return path, true
	}
	return "", false
}
