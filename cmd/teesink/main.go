package main

import (
	"os"

	"github.com/lawrencejones/teesink/cmd/teesink/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
