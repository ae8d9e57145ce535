package main

import (
	"os"

	"github.com/cascade-dex/cascade/cmd/cascaded/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
