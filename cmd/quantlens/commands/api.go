package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quantlens/backend/internal/api"
	"github.com/wonny/quantlens/backend/internal/api/handlers"
	"github.com/wonny/quantlens/backend/internal/scheduler"
	"github.com/wonny/quantlens/backend/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                            - Health check
  GET  /api/peers/{symbol}                - 피어 탐색
  GET  /api/peers/{symbol}/comparison     - 피어 비교
  GET  /api/themes                        - 테마 목록
  POST /api/themes/reload                 - 테마 정의 리로드
  GET  /api/themes/{id}                   - 테마 정의
  GET  /api/themes/{id}/analysis          - 테마 분석
  GET  /api/scores/disruption/{symbol}    - 디스럽션 점수
  POST /api/scores/disruption/batch       - 디스럽션 랭킹
  GET  /api/scores/earnings/{symbol}      - 실적 품질 등급

Example:
  go run ./cmd/quantlens api
  go run ./cmd/quantlens api --port 8091`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== QuantLens API Server ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}
	log := d.log

	peerHandler := handlers.NewPeerHandler(d.discovery, d.comparer, log)
	themeHandler := handlers.NewThemeHandler(d.themeStore, d.analytics, log)
	scoreHandler := handlers.NewScoreHandler(d.disruption, d.batch, d.earnings, log)

	router := api.NewRouter(peerHandler, themeHandler, scoreHandler, log)
	server := api.New(d.cfg, log, router)

	// Background theme reload keeps definitions fresh without restarts
	var sched *scheduler.Scheduler
	if d.cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		reload := jobs.NewThemeReloadJob(d.themeStore, d.cfg.Scheduler.ThemeReloadCron, log)
		if err := sched.AddJob(reload); err != nil {
			return fmt.Errorf("register theme reload job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
