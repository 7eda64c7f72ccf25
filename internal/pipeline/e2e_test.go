package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/wonny/swingpick/internal/external/naver"
	"github.com/wonny/swingpick/internal/feed"
	"github.com/wonny/swingpick/internal/selection"
	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/httputil"
	"github.com/wonny/swingpick/pkg/logger"
)

// 시트 1행 + 순위 5위 매칭 → 정확히 1픽, 순위 태그 포함, 빈 안내문 없음
func TestEndToEndSingleMatch(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "name,score\nABC,★★\n")
	}))
	defer feedSrv.Close()

	rankHTML := `<html><body><table class="type_2">`
	for _, pair := range [][2]string{
		{"000001", "Alpha"}, {"000002", "Beta"}, {"000003", "Gamma"},
		{"000004", "Delta"}, {"000005", "ABC"},
	} {
		rankHTML += fmt.Sprintf(`<tr><td><a href="/item/main.naver?code=%s">%s</a></td></tr>`, pair[0], pair[1])
	}
	rankHTML += `</table></body></html>`

	rankSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded, _ := korean.EUCKR.NewEncoder().String(rankHTML)
		fmt.Fprint(w, encoded)
	}))
	defer rankSrv.Close()

	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)
	httpClient := httputil.NewWithTimeout(cfg, log, 5*time.Second).DisableRetry()

	reader := feed.NewReader(httpClient, log, config.FeedConfig{CSVURL: feedSrv.URL, DropBlankNames: true})
	naverClient := naver.NewClient(httpClient, log, config.NaverConfig{
		BaseURL:     rankSrv.URL,
		RankPages:   1,
		RankCeiling: 200,
		PageDelay:   time.Millisecond,
	})

	messenger := &stubMessenger{}
	runner := NewRunner(reader, naverClient, selection.NewSelector(log), messenger, nil, nil,
		RunConfig{TopN: 3, RankCeiling: 200}, log)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, messenger.sent, 1)
	msg := messenger.sent[0]
	assert.Contains(t, msg, "ABC")
	assert.Contains(t, msg, "(시총순위 #5)")
	assert.Contains(t, msg, "강도:★★")
	assert.NotContains(t, msg, "오늘은 매수 후보가 없습니다")
}
