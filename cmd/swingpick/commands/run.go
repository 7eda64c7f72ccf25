package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/swingpick/internal/external/kakao"
	"github.com/wonny/swingpick/internal/external/naver"
	"github.com/wonny/swingpick/internal/feed"
	"github.com/wonny/swingpick/internal/history"
	"github.com/wonny/swingpick/internal/pipeline"
	"github.com/wonny/swingpick/internal/selection"
	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/database"
	"github.com/wonny/swingpick/pkg/httputil"
	"github.com/wonny/swingpick/pkg/logger"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "알림 1회 실행",
	Long: `후보 수집부터 카카오톡 발송까지 한 번 실행합니다.

이 명령어는:
- 구글 시트 CSV에서 후보 목록 수집
- 네이버 금융에서 KOSPI 시총 순위 수집
- 시총 상위권 종목만 교차 선별
- 선별 결과를 카카오톡 나에게 보내기로 발송
- 발송 메시지를 일자별 이력 파일로 기록

수집 실패 시에도 "후보 없음" 안내를 발송하고 정상 종료합니다.
자격증명 누락, 발송/이력 기록 실패만 비정상 종료합니다.

Example:
  go run ./cmd/swingpick run`,
	RunE: runAlert,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAlert(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.RequireAlert(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Build the runner
	runner, cleanup, err := initRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}
	defer cleanup()

	// 4. Run once
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := runner.Run(ctx); err != nil {
		log.WithError(err).Error("Alert run failed")
		return err
	}

	fmt.Println("✅ Alert run completed")
	return nil
}

// initRunner wires the full pipeline from config.
// ⭐ SSOT: 파이프라인 조립은 이 함수에서만
func initRunner(cfg *config.Config, log *logger.Logger) (*pipeline.Runner, func(), error) {
	cleanup := func() {}

	// HTTP clients. 실행당 1회 시도 원칙이라 재시도는 끔
	httpClient := httputil.NewWithTimeout(cfg, log, 20*time.Second).DisableRetry()

	// External clients
	feedReader := feed.NewReader(httpClient, log, cfg.Feed)
	naverClient := naver.NewClient(httpClient, log, cfg.Naver)
	kakaoClient := kakao.NewClient(httpClient, log, cfg.Kakao)

	// History store
	store, err := history.NewStore(cfg.History.Dir, cfg.History.Timezone, log)
	if err != nil {
		return nil, nil, fmt.Errorf("init history store: %w", err)
	}

	// Optional pick archive (DATABASE_URL 있을 때만)
	var recorder pipeline.PickRecorder
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup = db.Close
		recorder = history.NewRepository(db.Pool)

		log.Info("Pick archive enabled")
	}

	loc, err := time.LoadLocation(cfg.History.Timezone)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load timezone: %w", err)
	}

	runner := pipeline.NewRunner(
		feedReader,
		naverClient,
		selection.NewSelector(log),
		kakaoClient,
		store,
		recorder,
		pipeline.RunConfig{
			TopN:        cfg.Selection.TopN,
			RankCeiling: cfg.Naver.RankCeiling,
			Location:    loc,
		},
		log,
	)

	return runner, cleanup, nil
}
