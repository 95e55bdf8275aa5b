package main

import (
	"os"

	"github.com/999aryaDharma/HackStack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
