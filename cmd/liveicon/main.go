// Package main is the entry point for the liveicon CLI and agent.
package main

import (
	"os"

	"github.com/liveicon/liveicon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
