package main

import (
	"os"

	"github.com/NuZard84/go-speedtype/cmd/speedtype/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
