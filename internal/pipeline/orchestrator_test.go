package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/swingpick/internal/external/naver"
	"github.com/wonny/swingpick/internal/feed"
	"github.com/wonny/swingpick/internal/selection"
	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/logger"
)

type stubCandidates struct {
	candidates []feed.Candidate
	err        error
}

func (s *stubCandidates) Fetch(ctx context.Context) ([]feed.Candidate, error) {
	return s.candidates, s.err
}

type stubRanks struct {
	ranks []naver.RankEntry
	err   error
}

func (s *stubRanks) FetchRanked(ctx context.Context) ([]naver.RankEntry, error) {
	return s.ranks, s.err
}

type stubMessenger struct {
	tokenErr error
	sendErr  error
	sent     []string
}

func (s *stubMessenger) RefreshAccessToken(ctx context.Context) (string, error) {
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return "token", nil
}

func (s *stubMessenger) SendToMe(ctx context.Context, token, text string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, text)
	return nil
}

type stubHistory struct {
	written []string
	err     error
}

func (s *stubHistory) Write(text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.written = append(s.written, text)
	return "history/2026-08-28_picks.txt", nil
}

type stubRecorder struct {
	saved int
	err   error
}

func (s *stubRecorder) SavePicks(ctx context.Context, date time.Time, picks []selection.Pick) error {
	if s.err != nil {
		return s.err
	}
	s.saved += len(picks)
	return nil
}

func testRunner(c CandidateSource, r RankSource, m Messenger, h HistoryWriter, rec PickRecorder) *Runner {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return NewRunner(c, r, selection.NewSelector(log), m, h, rec,
		RunConfig{TopN: 3, RankCeiling: 200}, log)
}

func oneCandidate() []feed.Candidate {
	return []feed.Candidate{{
		Name: "삼성전자", NameKey: "삼성전자", Price: "72500", RawScore: "★★", Score: 2.0,
	}}
}

func oneRank() []naver.RankEntry {
	return []naver.RankEntry{{Rank: 5, Code: "005930", Name: "삼성전자", NameKey: "삼성전자"}}
}

func TestRunHappyPath(t *testing.T) {
	messenger := &stubMessenger{}
	hist := &stubHistory{}
	rec := &stubRecorder{}
	runner := testRunner(&stubCandidates{candidates: oneCandidate()}, &stubRanks{ranks: oneRank()}, messenger, hist, rec)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	msg := messenger.sent[0]
	assert.Contains(t, msg, "삼성전자")
	assert.Contains(t, msg, "(시총순위 #5)")
	assert.NotContains(t, msg, "오늘은 매수 후보가 없습니다")

	require.Len(t, hist.written, 1)
	assert.Equal(t, msg, hist.written[0])
	assert.Equal(t, 1, rec.saved)
}

func TestRunCredentialFailureIsFatal(t *testing.T) {
	messenger := &stubMessenger{tokenErr: errors.New("invalid_grant")}
	runner := testRunner(&stubCandidates{candidates: oneCandidate()}, &stubRanks{ranks: oneRank()}, messenger, nil, nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, messenger.sent)
}

func TestRunFeedFailureDegrades(t *testing.T) {
	messenger := &stubMessenger{}
	hist := &stubHistory{}
	runner := testRunner(&stubCandidates{err: errors.New("503")}, &stubRanks{ranks: oneRank()}, messenger, hist, nil)

	// 피드 장애는 런 실패가 아니라 안내 메시지로 강등
	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "오늘은 매수 후보가 없습니다")
	assert.Contains(t, messenger.sent[0], "후보 시트")
	assert.Empty(t, hist.written)
}

func TestRunRankFailureDegrades(t *testing.T) {
	messenger := &stubMessenger{}
	runner := testRunner(&stubCandidates{candidates: oneCandidate()}, &stubRanks{err: errors.New("timeout")}, messenger, nil, nil)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "시총 순위")
}

func TestRunEmptyJoinSendsPlainNotice(t *testing.T) {
	messenger := &stubMessenger{}
	hist := &stubHistory{}
	rec := &stubRecorder{}
	runner := testRunner(
		&stubCandidates{candidates: oneCandidate()},
		&stubRanks{ranks: []naver.RankEntry{{Rank: 1, NameKey: "다른종목"}}},
		messenger, hist, rec,
	)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	// 정상 수집 + 빈 조인은 사유 접미어 없이
	assert.Equal(t, "오늘은 매수 후보가 없습니다.", messenger.sent[0])
	assert.Empty(t, hist.written)
	assert.Zero(t, rec.saved)
}

func TestRunDeliveryFailureIsFatal(t *testing.T) {
	messenger := &stubMessenger{sendErr: errors.New("kapi down")}
	runner := testRunner(&stubCandidates{candidates: oneCandidate()}, &stubRanks{ranks: oneRank()}, messenger, nil, nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
}

func TestRunHistoryFailureIsFatal(t *testing.T) {
	messenger := &stubMessenger{}
	hist := &stubHistory{err: errors.New("disk full")}
	runner := testRunner(&stubCandidates{candidates: oneCandidate()}, &stubRanks{ranks: oneRank()}, messenger, hist, nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, messenger.sent)
}

func TestPreview(t *testing.T) {
	runner := testRunner(&stubCandidates{candidates: oneCandidate()}, &stubRanks{ranks: oneRank()}, &stubMessenger{}, nil, nil)

	msg, err := runner.Preview(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "삼성전자")
	assert.Contains(t, msg, "(시총순위 #5)")
}

func TestPreviewSurfacesFetchErrors(t *testing.T) {
	runner := testRunner(&stubCandidates{err: errors.New("403")}, &stubRanks{}, &stubMessenger{}, nil, nil)

	_, err := runner.Preview(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "fetch candidates"))
}
