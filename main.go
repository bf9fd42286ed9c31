package main

import (
	"os"

	"github.com/importJL/GlyphWrAIte/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
