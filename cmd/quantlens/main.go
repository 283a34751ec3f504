package main

import (
	"os"

	"github.com/wonny/quantlens/backend/cmd/quantlens/commands"
)

// main is the entry point for the QuantLens CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/quantlens [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
