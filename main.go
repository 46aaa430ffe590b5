package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/danpilch/bees-exporter/pkg/commands"
)

func main() {
	// Respect container CPU quotas without logging on startup.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(commands.Execute())
}
