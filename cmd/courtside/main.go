package main

import (
	"os"

	"github.com/fortuna/courtside/cmd/courtside/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
