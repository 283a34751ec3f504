package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// peersCmd represents the peers command
var peersCmd = &cobra.Command{
	Use:   "peers [symbol]",
	Short: "피어 탐색 및 비교",
	Long: `대상 종목의 비교 가능 기업을 찾고, 선택적으로 교차 비교를 수행합니다.

Example:
  go run ./cmd/quantlens peers NVDA
  go run ./cmd/quantlens peers NVDA --limit 8
  go run ./cmd/quantlens peers NVDA --compare
  go run ./cmd/quantlens peers NVDA --compare --with AMD,INTC`,
	Args: cobra.ExactArgs(1),
	RunE: runPeers,
}

var (
	peersLimit   int
	peersCompare bool
	peersWith    string
)

func init() {
	rootCmd.AddCommand(peersCmd)

	peersCmd.Flags().IntVar(&peersLimit, "limit", 0, "최대 피어 수 (기본: 설정값)")
	peersCmd.Flags().BoolVar(&peersCompare, "compare", false, "피어 그룹 교차 비교 실행")
	peersCmd.Flags().StringVar(&peersWith, "with", "", "명시적 피어 목록 (쉼표 구분, --compare와 함께)")
}

func runPeers(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	symbol := args[0]

	var peerGroup []string
	if peersWith != "" {
		for _, p := range strings.Split(peersWith, ",") {
			if p = strings.TrimSpace(p); p != "" {
				peerGroup = append(peerGroup, p)
			}
		}
	} else {
		discovery, err := d.discovery.DiscoverPeers(ctx, symbol, peersLimit)
		if err != nil {
			return fmt.Errorf("peer discovery: %w", err)
		}
		if !peersCompare {
			return printJSON(discovery)
		}
		peerGroup = discovery.Peers
	}

	comparison, err := d.comparer.Compare(ctx, symbol, peerGroup)
	if err != nil {
		return fmt.Errorf("peer comparison: %w", err)
	}
	return printJSON(comparison)
}

// printJSON writes indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
