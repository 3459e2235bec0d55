package main

import (
	"os"

	"github.com/inboxeng/deploykit/cli"
	"github.com/inboxeng/deploykit/pkg/logger"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
