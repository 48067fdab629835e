package main

import (
	"os"

	"github.com/kfxlabs/xenops/cmd/xenops/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
