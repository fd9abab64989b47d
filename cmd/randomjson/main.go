// Package main provides the CLI for the randomjson document generator.
package main

import (
	"os"

	"github.com/leapstack-labs/randomjson/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
