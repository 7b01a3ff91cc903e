package main

import (
	"os"

	"github.com/agromitra/agromitra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
