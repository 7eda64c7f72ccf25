package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"

	"github.com/wonny/swingpick/internal/textutil"
)

// RankEntry represents one instrument in market-cap order.
// Rank is the 1-based position after dedup, an approximation of true
// market-cap order on the day the pages were scraped.
type RankEntry struct {
	Rank    int
	Code    string
	Name    string
	NameKey string
}

// scrapedRow is a (code, name) pair in page order, before dedup
type scrapedRow struct {
	code string
	name string
}

var itemCodeRe = regexp.MustCompile(`code=(\d{6})`)

// FetchRanked fetches the market-cap listing pages and returns the top
// instruments in rank order.
// ⭐ SSOT: 시가총액 순위 스크랩은 이 함수에서만
//
// Any page fetch failure fails the whole call: callers must treat that as
// "ranking unavailable for this run", never as a partial table. Zero rows
// extracted across all pages is not an error.
func (c *Client) FetchRanked(ctx context.Context) ([]RankEntry, error) {
	var rows []scrapedRow

	for page := 1; page <= c.rankPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait before ranking page %d: %w", page, err)
		}

		pageRows, err := c.fetchRankingPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("ranking page %d: %w", page, err)
		}
		rows = append(rows, pageRows...)
	}

	entries := dedupeAndRank(rows, c.rankCeiling)

	c.logger.WithFields(map[string]interface{}{
		"pages":   c.rankPages,
		"scraped": len(rows),
		"ranked":  len(entries),
	}).Debug("Fetched market-cap ranking")

	return entries, nil
}

// fetchRankingPage fetches and parses a single listing page
func (c *Client) fetchRankingPage(ctx context.Context, page int) ([]scrapedRow, error) {
	url := fmt.Sprintf("%s/sise/sise_market_sum.naver?sosok=0&page=%d", c.baseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.naver.com/")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// 페이지는 EUC-KR로 서빙됨
	decoded := korean.EUCKR.NewDecoder().Reader(resp.Body)

	rows, err := parseRankingHTML(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return rows, nil
}

// parseRankingHTML extracts (code, name) pairs from the listing markup.
// The listing table links each instrument as <a href="/item/main.naver?code=NNNNNN">.
func parseRankingHTML(r io.Reader) ([]scrapedRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var rows []scrapedRow
	doc.Find(`table.type_2 a[href*="/item/main"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		m := itemCodeRe.FindStringSubmatch(href)
		if m == nil {
			return
		}

		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}

		rows = append(rows, scrapedRow{code: m[1], name: name})
	})

	return rows, nil
}

// dedupeAndRank removes duplicate codes keeping the first (highest-ranked)
// occurrence, assigns 1-based ranks in page order, and drops everything
// beyond the ceiling.
func dedupeAndRank(rows []scrapedRow, ceiling int) []RankEntry {
	seen := make(map[string]bool, len(rows))
	entries := make([]RankEntry, 0, len(rows))

	for _, row := range rows {
		if seen[row.code] {
			continue
		}
		seen[row.code] = true

		rank := len(entries) + 1
		if ceiling > 0 && rank > ceiling {
			break
		}

		entries = append(entries, RankEntry{
			Rank:    rank,
			Code:    row.code,
			Name:    row.name,
			NameKey: textutil.NormalizeName(row.name),
		})
	}

	return entries
}
