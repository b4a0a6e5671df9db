package main

import (
	"os"

	"github.com/teranos/clwm/cmd/clwm/commands"
	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		errors.Report(os.Stderr, err, logger.Current() >= logger.VerbosityTrace)
		os.Exit(1)
	}
}
