// Package main is the entry point for the asmcheck CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/asmcheck/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
