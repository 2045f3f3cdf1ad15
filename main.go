package main

import (
	"os"

	"github.com/CYule/vibe-gallery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
