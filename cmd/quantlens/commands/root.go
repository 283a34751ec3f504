package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quantlens",
	Short: "QuantLens - 종목 비교/스코어링 엔진",
	Long: `QuantLens Unified CLI

피어 비교, 테마 분석, 디스럽션/실적품질 스코어링을 제공하는
정량 비교 엔진.

Usage:
  go run ./cmd/quantlens [command]

Examples:
  go run ./cmd/quantlens api
  go run ./cmd/quantlens peers NVDA
  go run ./cmd/quantlens theme analyze ai-infrastructure
  go run ./cmd/quantlens score disruption NVDA`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
