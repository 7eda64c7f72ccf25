package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/httputil"
	"github.com/wonny/swingpick/pkg/logger"
)

func newTestReader(t *testing.T, url string, dropBlank bool) *Reader {
	t.Helper()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)
	httpClient := httputil.NewWithTimeout(cfg, log, 5*time.Second).DisableRetry()

	return NewReader(httpClient, log, config.FeedConfig{
		CSVURL:         url,
		DropBlankNames: dropBlank,
	})
}

func serveBytes(body []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
}

func TestFetchUTF8WithBOM(t *testing.T) {
	csvBody := "종목명,현재가,손절,목표,강도,사유\n삼성전자,72500,69000,80000,★★★,반도체 업황 개선\n"
	srv := serveBytes(append([]byte{0xEF, 0xBB, 0xBF}, []byte(csvBody)...))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, true)

	candidates, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "삼성전자", c.Name)
	assert.Equal(t, "72500", c.Price)
	assert.Equal(t, "69000", c.Stop)
	assert.Equal(t, "80000", c.Target)
	assert.Equal(t, "★★★", c.RawScore)
	assert.Equal(t, "반도체 업황 개선", c.Reason)
	assert.Equal(t, "삼성전자", c.NameKey)
	assert.Equal(t, 3.0, c.Score)
}

func TestFetchEUCKRFallback(t *testing.T) {
	csvBody := "종목명,현재가,강도\nLG화학,350000,★★☆\n"
	encoded, err := korean.EUCKR.NewEncoder().String(csvBody)
	require.NoError(t, err)

	srv := serveBytes([]byte(encoded))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, true)

	candidates, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, "LG화학", candidates[0].Name)
	assert.Equal(t, 2.5, candidates[0].Score)
	// 시트에 없는 컬럼은 빈 값으로 채워짐
	assert.Equal(t, "", candidates[0].Stop)
	assert.Equal(t, "", candidates[0].Target)
	assert.Equal(t, "", candidates[0].Reason)
}

func TestFetchEnglishHeaders(t *testing.T) {
	csvBody := "name,price,stop,target,score,reason\nNAVER,180000,170000,210000,★★,플랫폼 반등\n"
	srv := serveBytes([]byte(csvBody))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, true)

	candidates, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "NAVER", candidates[0].Name)
	assert.Equal(t, 2.0, candidates[0].Score)
}

func TestFetchDropsBlankNames(t *testing.T) {
	csvBody := "종목명,현재가\n삼성전자,72500\n ,100\n,200\n"
	srv := serveBytes([]byte(csvBody))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, true)

	candidates, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestFetchKeepsBlankNamesWhenDisabled(t *testing.T) {
	csvBody := "종목명,현재가\n삼성전자,72500\n,100\n"
	srv := serveBytes([]byte(csvBody))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, false)

	candidates, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestFetchEmptySheet(t *testing.T) {
	srv := serveBytes([]byte("종목명,현재가,강도\n"))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, true)

	candidates, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	reader := newTestReader(t, srv.URL, true)

	_, err := reader.Fetch(context.Background())
	require.Error(t, err)
}

func TestFetchNetworkError(t *testing.T) {
	srv := serveBytes([]byte("종목명\n"))
	srv.Close() // closed before use

	reader := newTestReader(t, srv.URL, true)

	_, err := reader.Fetch(context.Background())
	require.Error(t, err)
}

func TestHeaderIndexFirstAliasWins(t *testing.T) {
	idx := headerIndex([]string{"종목명", "name", "현재가"})

	assert.Equal(t, 0, idx["name"])
	assert.Equal(t, 2, idx["price"])
}

func TestBuildCandidatesShortRecord(t *testing.T) {
	records := [][]string{
		{"종목명", "현재가", "손절", "목표", "강도", "사유"},
		{"기아", "85000"}, // truncated row
	}

	candidates := buildCandidates(records, true)
	require.Len(t, candidates, 1)
	assert.Equal(t, "기아", candidates[0].Name)
	assert.Equal(t, "85000", candidates[0].Price)
	assert.Equal(t, "", candidates[0].Reason)
}

func TestDecodeCSVBothEncodingsFail(t *testing.T) {
	// 따옴표가 깨진 CSV는 어느 인코딩으로도 파싱 불가
	_, err := decodeCSV([]byte("a,\"b\nc"))
	require.Error(t, err)
}
