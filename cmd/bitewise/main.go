// Package main is the single-binary entrypoint for Bitewise.
package main

import "github.com/bitewise-app/bitewise/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
