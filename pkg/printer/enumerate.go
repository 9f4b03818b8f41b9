package printer

import (
	"fmt"
	"os/exec"
	"strings"

	ipp "github.com/phin1x/go-ipp"

	"github.com/smartwish/print-agent/pkg/config"
)

// Info describes one printer visible to the local print stack.
type Info struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	Location string `json:"location,omitempty"`
}

// Enumerate lists the printers known to the local CUPS/IPP endpoint. When
// the endpoint is unreachable it falls back to parsing `lpstat -p`, so the
// startup listing still works on hosts without an IPP port open.
func Enumerate(cfg *config.Config) ([]Info, error) {
	client := ipp.NewCUPSClient(cfg.IPPHost, cfg.IPPPort, "", "", false)
	attrs, err := client.GetPrinters([]string{"printer-name", "printer-state", "printer-location"})
	if err == nil {
		printers := make([]Info, 0, len(attrs))
		for name, a := range attrs {
			printers = append(printers, Info{
				Name:     name,
				State:    attrValue(a, "printer-state"),
				Location: attrValue(a, "printer-location"),
			})
		}
		return printers, nil
	}

	printers, lpErr := enumerateLpstat()
	if lpErr != nil {
		return nil, fmt.Errorf("failed to enumerate printers: ipp: %v, lpstat: %v", err, lpErr)
	}
	return printers, nil
}

func attrValue(attrs ipp.Attributes, key string) string {
	values, ok := attrs[key]
	if !ok || len(values) == 0 {
		return ""
	}
	return fmt.Sprintf("%v", values[0].Value)
}

// enumerateLpstat parses lines of the form
// "printer HP_OfficeJet is idle.  enabled since ...".
func enumerateLpstat() ([]Info, error) {
	out, err := exec.Command("lpstat", "-p").Output()
	if err != nil {
		return nil, err
	}

	var printers []Info
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] != "printer" {
			continue
		}
		state := strings.TrimSuffix(fields[3], ".")
		printers = append(printers, Info{Name: fields[1], State: state})
	}
	return printers, nil
}
