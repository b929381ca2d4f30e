package main

import (
	"os"

	"github.com/runar-labs/runar-sqlite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
