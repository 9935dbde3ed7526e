package main

import (
	"os"

	"retailsync/cmd/terminalsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
