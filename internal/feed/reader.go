package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"

	"github.com/wonny/swingpick/internal/score"
	"github.com/wonny/swingpick/internal/textutil"
	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/httputil"
	"github.com/wonny/swingpick/pkg/logger"
)

// Candidate is one row of the externally maintained candidate sheet.
// 시트에 없는 컬럼은 ""로 채워지므로 다운스트림은 누락 키를 신경쓰지 않아도 됨
type Candidate struct {
	Name     string
	Price    string
	Stop     string
	Target   string
	RawScore string
	Reason   string

	// Derived, internal-use only (join key and ordering value)
	NameKey string
	Score   float64
}

// columnAliases maps logical columns to accepted header spellings.
// 시트는 사람이 관리해서 한/영 헤더가 섞여 들어옴
var columnAliases = map[string][]string{
	"name":   {"name", "종목명"},
	"price":  {"price", "현재가"},
	"stop":   {"stop", "손절", "손절가"},
	"target": {"target", "목표", "목표가"},
	"score":  {"score", "강도", "점수"},
	"reason": {"reason", "사유"},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader fetches and decodes the candidate sheet feed
// ⭐ SSOT: 후보 시트 수집은 이 리더에서만
type Reader struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.FeedConfig
}

// NewReader creates a new feed reader
func NewReader(httpClient *httputil.Client, log *logger.Logger, cfg config.FeedConfig) *Reader {
	return &Reader{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// Fetch downloads and parses the candidate sheet.
// Network failure or a body neither UTF-8 nor EUC-KR can parse is a hard
// failure; the caller degrades to a "no candidates" outcome, no retry.
func (r *Reader) Fetch(ctx context.Context) ([]Candidate, error) {
	resp, err := r.httpClient.Get(ctx, r.cfg.CSVURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	records, err := decodeCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	candidates := buildCandidates(records, r.cfg.DropBlankNames)

	r.logger.WithFields(map[string]interface{}{
		"rows":       len(records),
		"candidates": len(candidates),
	}).Debug("Fetched candidate sheet")

	return candidates, nil
}

// decodeCSV parses the sheet bytes, trying UTF-8 (BOM tolerated) first and
// falling back to EUC-KR. The first attempt that parses wins.
func decodeCSV(raw []byte) ([][]string, error) {
	body := bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(body) {
		if records, err := readAll(body); err == nil {
			return records, nil
		}
	}

	decoded, err := io.ReadAll(korean.EUCKR.NewDecoder().Reader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("EUC-KR decode: %w", err)
	}

	records, err := readAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return records, nil
}

func readAll(b []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1 // 행마다 컬럼 수가 다를 수 있음
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// buildCandidates maps header-addressed records into Candidates, back-filling
// absent columns with "" and attaching the derived key and score.
func buildCandidates(records [][]string, dropBlankNames bool) []Candidate {
	if len(records) == 0 {
		return []Candidate{}
	}

	idx := headerIndex(records[0])
	candidates := make([]Candidate, 0, len(records)-1)

	for _, record := range records[1:] {
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		c := Candidate{
			Name:     get("name"),
			Price:    get("price"),
			Stop:     get("stop"),
			Target:   get("target"),
			RawScore: get("score"),
			Reason:   get("reason"),
		}
		c.NameKey = textutil.NormalizeName(c.Name)
		c.Score = score.Parse(c.RawScore)

		if dropBlankNames && c.NameKey == "" {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates
}

// headerIndex resolves each logical column to its position in the header row.
// Columns the sheet doesn't carry are simply absent from the map.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(columnAliases))

	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for col, aliases := range columnAliases {
			if _, taken := idx[col]; taken {
				continue
			}
			for _, alias := range aliases {
				if cell == alias {
					idx[col] = i
					break
				}
			}
		}
	}

	return idx
}
