package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// scoreCmd represents the score command group
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "디스럽션/실적품질 스코어링",
	Long: `재무제표 기반 스코어링을 실행합니다.

Example:
  go run ./cmd/quantlens score disruption NVDA
  go run ./cmd/quantlens score disruption NVDA AMD INTC
  go run ./cmd/quantlens score earnings NVDA`,
}

var scoreDisruptionCmd = &cobra.Command{
	Use:   "disruption [symbol...]",
	Short: "디스럽션 점수 (복수 심볼은 랭킹)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScoreDisruption,
}

var scoreEarningsCmd = &cobra.Command{
	Use:   "earnings [symbol]",
	Short: "실적 품질 등급",
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreEarnings,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.AddCommand(scoreDisruptionCmd)
	scoreCmd.AddCommand(scoreEarningsCmd)
}

func runScoreDisruption(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if len(args) == 1 {
		result, err := d.disruption.Score(ctx, args[0])
		if err != nil {
			return fmt.Errorf("disruption scoring: %w", err)
		}
		return printJSON(result)
	}

	return printJSON(d.batch.ScoreBatch(ctx, args))
}

func runScoreEarnings(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := d.earnings.Grade(ctx, args[0])
	if err != nil {
		return fmt.Errorf("earnings grading: %w", err)
	}
	return printJSON(result)
}
