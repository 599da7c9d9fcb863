package main

import (
	"os"

	"github.com/firefly-engineering/agentspaces/cmd"
	"github.com/firefly-engineering/agentspaces/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
