package main

import (
	"os"

	"github.com/crimson-sun/flarewatch/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
