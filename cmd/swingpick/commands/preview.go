package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/logger"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "발송 없이 메시지 미리보기",
	Long: `수집과 선별만 수행하고, 발송될 메시지를 터미널에 출력합니다.

카카오 자격증명 없이 동작하며 발송/이력 기록을 하지 않습니다.
run과 달리 수집 실패를 감추지 않고 에러로 보여줍니다.

Example:
  go run ./cmd/swingpick preview`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.RequireFeed(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg)

	runner, cleanup, err := initRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	message, err := runner.Preview(ctx)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println(message)
	fmt.Println("═══════════════════════════════════════════════════════════")

	return nil
}
