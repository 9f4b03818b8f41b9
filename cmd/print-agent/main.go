package main

import (
	"os"

	"github.com/smartwish/print-agent/cmd/print-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
