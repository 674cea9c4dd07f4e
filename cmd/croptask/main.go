package main

import (
	"os"

	"github.com/existflow/croptask/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
