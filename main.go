package main

import (
	"os"

	"github.com/rtzll/ytranscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
