package main

import (
	"os"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/cmd/exomaft/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
