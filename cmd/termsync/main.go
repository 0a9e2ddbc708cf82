// Package main provides the entry point for the termsync CLI tool.
package main

import (
	"github.com/metaglot/termsync/cmd/termsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
