// Package main is the entry point for the myphonectl operator CLI.
package main

import (
	"os"

	"myphone/cmd/myphonectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
