package main

import (
	"os"

	"github.com/ishaan812/spendlog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
