package main

import (
	"os"

	"github.com/vovakirdan/roomrelay/cmd/server/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
