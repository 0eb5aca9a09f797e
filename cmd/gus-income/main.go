// Package main is the entry point for gus-income CLI.
package main

import (
	"os"

	"github.com/pigeonworks-llc/gus-income/cmd/gus-income/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
