package main

import (
	"os"

	"github.com/gvmrun/gvmrun/cmd/gvmrun/commands"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		// Cobra already printed the error; a non-transient bridge
		// failure surfaces here as exit code 1.
		os.Exit(1)
	}
}
