package main

import (
	"os"

	"github.com/haidt/agent-engine/cmd/agentctl/commands"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
