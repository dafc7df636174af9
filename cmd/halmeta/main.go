package main

import (
	"os"

	"github.com/goharsahi/mezzio-hal/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
