// Package main provides the entry point for the helpsek CLI.
package main

import (
	"os"

	"github.com/helpsek/helpsek/cmd/helpsek/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
