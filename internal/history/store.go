package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wonny/swingpick/pkg/logger"
)

const fileSuffix = "_picks.txt"

// Store persists the rendered alert message to one file per calendar day
// ⭐ SSOT: 추천 이력 파일은 이 스토어에서만 기록
type Store struct {
	dir    string
	loc    *time.Location
	logger *logger.Logger
}

// NewStore creates a store rooted at dir, keyed by dates in the given zone.
func NewStore(dir, timezone string, log *logger.Logger) (*Store, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", timezone, err)
	}

	return &Store{dir: dir, loc: loc, logger: log}, nil
}

// Write records the message under today's date and returns the file path.
// Content is the message verbatim, so identical inputs on the same day
// produce identical files.
func (s *Store) Write(text string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create history dir: %w", err)
	}

	date := time.Now().In(s.loc).Format("2006-01-02")
	path := filepath.Join(s.dir, date+fileSuffix)

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write history file: %w", err)
	}

	s.logger.WithField("path", path).Info("Wrote pick history")
	return path, nil
}

// Read returns the stored message for a date (YYYY-MM-DD).
func (s *Store) Read(date string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, date+fileSuffix))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Dates lists the dates that have a stored message, ascending.
func (s *Store) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, fileSuffix))
	}

	sort.Strings(dates)
	return dates, nil
}
