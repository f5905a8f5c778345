package main

import (
	"os"

	"github.com/propdown/propdown/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
