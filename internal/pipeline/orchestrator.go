package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/swingpick/internal/external/naver"
	"github.com/wonny/swingpick/internal/feed"
	"github.com/wonny/swingpick/internal/notify"
	"github.com/wonny/swingpick/internal/selection"
	"github.com/wonny/swingpick/pkg/logger"
)

// CandidateSource supplies the day's trade candidates.
type CandidateSource interface {
	Fetch(ctx context.Context) ([]feed.Candidate, error)
}

// RankSource supplies the market-cap rank table. 스크랩 교체가 쉽도록
// 좁은 인터페이스 뒤에 격리 (구조화된 API로 바꿔도 Selector는 무관)
type RankSource interface {
	FetchRanked(ctx context.Context) ([]naver.RankEntry, error)
}

// Messenger acquires the delivery credential and pushes the message.
type Messenger interface {
	RefreshAccessToken(ctx context.Context) (string, error)
	SendToMe(ctx context.Context, accessToken, text string) error
}

// HistoryWriter records the rendered message for the day.
type HistoryWriter interface {
	Write(text string) (string, error)
}

// PickRecorder archives the selection rows for the day.
type PickRecorder interface {
	SavePicks(ctx context.Context, date time.Time, picks []selection.Pick) error
}

// Runner sequences one alert run
// ⭐ SSOT: 런 오케스트레이션은 여기서만
type Runner struct {
	candidates CandidateSource
	ranks      RankSource
	selector   *selection.Selector
	messenger  Messenger
	history    HistoryWriter // optional
	recorder   PickRecorder  // optional
	logger     *logger.Logger

	topN        int
	rankCeiling int
	loc         *time.Location
}

// RunConfig holds the run-level constants.
type RunConfig struct {
	TopN        int
	RankCeiling int
	Location    *time.Location
}

// NewRunner creates a runner. history and recorder may be nil.
func NewRunner(
	candidates CandidateSource,
	ranks RankSource,
	selector *selection.Selector,
	messenger Messenger,
	history HistoryWriter,
	recorder PickRecorder,
	cfg RunConfig,
	log *logger.Logger,
) *Runner {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Runner{
		candidates:  candidates,
		ranks:       ranks,
		selector:    selector,
		messenger:   messenger,
		history:     history,
		recorder:    recorder,
		logger:      log,
		topN:        cfg.TopN,
		rankCeiling: cfg.RankCeiling,
		loc:         loc,
	}
}

// Run executes one best-effort alert run.
//
// Feed and ranking failures are recovered locally: the run still delivers a
// "no candidates" notice and returns nil, so a broken upstream never
// silences the alert cadence. Credential, history and delivery failures
// are returned to the caller and terminate the process non-zero.
func (r *Runner) Run(ctx context.Context) error {
	token, err := r.messenger.RefreshAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}

	candidates, err := r.candidates.Fetch(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Candidate feed unavailable, delivering empty notice")
		return r.deliver(ctx, token, notify.FormatEmpty(notify.ReasonFeedUnavailable))
	}

	ranks, err := r.ranks.FetchRanked(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Market-cap ranking unavailable, delivering empty notice")
		return r.deliver(ctx, token, notify.FormatEmpty(notify.ReasonRankUnavailable))
	}

	picks := r.selector.Select(candidates, ranks, r.topN)

	if len(picks) == 0 {
		return r.deliver(ctx, token, notify.FormatEmpty(notify.ReasonNone))
	}

	message := notify.FormatPicks(picks, r.topN, r.rankCeiling)

	// History is written only for non-empty selections, before delivery
	if r.history != nil {
		path, err := r.history.Write(message)
		if err != nil {
			return fmt.Errorf("write history: %w", err)
		}
		r.logger.WithField("path", path).Debug("History written")
	}

	if r.recorder != nil {
		date := midnight(time.Now().In(r.loc))
		if err := r.recorder.SavePicks(ctx, date, picks); err != nil {
			return fmt.Errorf("save picks: %w", err)
		}
	}

	return r.deliver(ctx, token, message)
}

// Preview runs the selection pipeline without credentials, delivery or
// history, and returns the message that would have been sent. 드라이런용:
// 수집 실패는 여기서는 감추지 않고 그대로 에러로 돌려준다.
func (r *Runner) Preview(ctx context.Context) (string, error) {
	candidates, err := r.candidates.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch candidates: %w", err)
	}

	ranks, err := r.ranks.FetchRanked(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch ranking: %w", err)
	}

	picks := r.selector.Select(candidates, ranks, r.topN)
	return notify.FormatPicks(picks, r.topN, r.rankCeiling), nil
}

func (r *Runner) deliver(ctx context.Context, token, message string) error {
	if err := r.messenger.SendToMe(ctx, token, message); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	r.logger.WithField("bytes", len(message)).Info("Alert delivered")
	return nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
