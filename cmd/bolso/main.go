package main

import (
	"os"

	"github.com/bolso-dev/bolso/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
