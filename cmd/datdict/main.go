package main

import (
	"os"

	"github.com/forestrie/go-doublearray/cmd/datdict/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
