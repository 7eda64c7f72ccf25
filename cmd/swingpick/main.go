package main

import (
	"os"

	"github.com/wonny/swingpick/cmd/swingpick/commands"
)

// main is the entry point for the swingpick CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/swingpick [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
