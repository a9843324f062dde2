package main

import (
	"os"

	"github.com/tickerpulse/backend/cmd/pulse/commands"
)

// main is the entry point for the TickerPulse CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
