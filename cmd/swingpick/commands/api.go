package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/swingpick/internal/api"
	"github.com/wonny/swingpick/internal/api/handlers"
	"github.com/wonny/swingpick/internal/history"
	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `지난 추천 이력을 조회하는 REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /api/history            - 기록된 날짜 목록
  GET  /api/history/{date}     - 해당 날짜의 발송 메시지

Example:
  go run ./cmd/swingpick api
  go run ./cmd/swingpick api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Open the history store
	store, err := history.NewStore(cfg.History.Dir, cfg.History.Timezone, log)
	if err != nil {
		return fmt.Errorf("init history store: %w", err)
	}

	// 4. Create handler
	historyHandler := handlers.NewHistoryHandler(store, log)

	// 5. Create router
	router := api.NewRouter(historyHandler, log)

	// 6. Create server
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/history")
	fmt.Println("  GET  /api/history/{date}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
