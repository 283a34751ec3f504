package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// themeCmd represents the theme command group
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "테마 목록 및 분석",
	Long: `테마 정의를 조회하고 테마 바스켓 분석을 실행합니다.

Example:
  go run ./cmd/quantlens theme list
  go run ./cmd/quantlens theme analyze ai-infrastructure`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "정의된 테마 목록 출력",
	RunE:  runThemeList,
}

var themeAnalyzeCmd = &cobra.Command{
	Use:   "analyze [theme-id]",
	Short: "테마 바스켓 분석 실행",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeAnalyze,
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeAnalyzeCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	for _, theme := range d.themeStore.List() {
		fmt.Printf("%-22s %-24s %2d constituents  [%s / %s]\n",
			theme.ID, theme.Name, len(theme.Constituents), theme.RiskLevel, theme.GrowthStage)
	}
	return nil
}

func runThemeAnalyze(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	result, err := d.analytics.Analyze(ctx, args[0])
	if err != nil {
		return fmt.Errorf("theme analysis: %w", err)
	}
	return printJSON(result)
}
