package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/ccoe-dev/pexp/internal/cli"
	"github.com/ccoe-dev/pexp/pkg/version"
)

func main() {
	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		os.Exit(1)
	}
}
