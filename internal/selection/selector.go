package selection

import (
	"sort"

	"github.com/wonny/swingpick/internal/external/naver"
	"github.com/wonny/swingpick/internal/feed"
	"github.com/wonny/swingpick/pkg/logger"
)

// Pick is a candidate joined with its market-cap rank.
// The embedded candidate fields are never edited by the join.
type Pick struct {
	feed.Candidate

	Rank int
	Code string
}

// Selector joins candidates to the rank table and picks the top N
// ⭐ SSOT: 후보 선정 로직은 여기서만
type Selector struct {
	logger *logger.Logger
}

// NewSelector creates a new selector
func NewSelector(log *logger.Logger) *Selector {
	return &Selector{logger: log}
}

// Select inner-joins candidates to ranks on the normalized name key,
// orders by score descending then rank ascending, and truncates to topN.
//
// A candidate with no rank match is ineligible, not an error: 시총 200위
// 밖이거나 시트의 이름이 틀린 경우 둘 다 조용히 제외된다 (정확 일치만,
// fuzzy 매칭 없음). An empty join returns an empty slice, not an error.
func (s *Selector) Select(candidates []feed.Candidate, ranks []naver.RankEntry, topN int) []Pick {
	byKey := make(map[string]naver.RankEntry, len(ranks))
	for _, r := range ranks {
		if _, exists := byKey[r.NameKey]; !exists {
			byKey[r.NameKey] = r
		}
	}

	picks := make([]Pick, 0, len(candidates))
	for _, c := range candidates {
		r, ok := byKey[c.NameKey]
		if !ok {
			continue
		}
		picks = append(picks, Pick{Candidate: c, Rank: r.Rank, Code: r.Code})
	}

	// 강도 높은 순, 동점이면 시총 큰 쪽(순위 낮은 쪽) 우선
	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].Score != picks[j].Score {
			return picks[i].Score > picks[j].Score
		}
		return picks[i].Rank < picks[j].Rank
	})

	if topN > 0 && len(picks) > topN {
		picks = picks[:topN]
	}

	s.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"ranks":      len(ranks),
		"picks":      len(picks),
	}).Debug("Selection completed")

	return picks
}
