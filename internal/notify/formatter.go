package notify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wonny/swingpick/internal/selection"
)

const (
	headerFormat = "[스윙매매 프로젝트] KOSPI 시총 %d위 이내 매수 후보 (최대 %d종목)"
	footer       = "※ 종가는 장마감가로 확정, 슬리피지 가능. 손절/목표는 마감 후 재확인 권장."
	emptyNotice  = "오늘은 매수 후보가 없습니다."
)

// EmptyReason is the optional suffix on the no-candidates notice.
type EmptyReason string

const (
	ReasonNone            EmptyReason = ""
	ReasonFeedUnavailable EmptyReason = "후보 시트를 불러오지 못했습니다"
	ReasonRankUnavailable EmptyReason = "시총 순위를 불러오지 못했습니다"
)

// FormatPicks renders the selection into the alert message.
// ⭐ SSOT: 알림 메시지 포맷은 여기서만
func FormatPicks(picks []selection.Pick, topN, rankCeiling int) string {
	if len(picks) == 0 {
		return FormatEmpty(ReasonNone)
	}

	lines := make([]string, 0, len(picks)+2)
	lines = append(lines, fmt.Sprintf(headerFormat, rankCeiling, topN))

	for i, p := range picks {
		if topN > 0 && i >= topN {
			break
		}
		lines = append(lines, fmt.Sprintf(
			"%d) %s %s | 손절:%s | 목표:%s | 강도:%s | (시총순위 #%d) | %s",
			i+1,
			p.Name,
			formatAmount(p.Price, "원"),
			formatAmount(p.Stop, ""),
			formatAmount(p.Target, ""),
			p.RawScore,
			p.Rank,
			p.Reason,
		))
	}

	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

// FormatEmpty renders the fixed no-candidates notice, with an optional
// failure-reason suffix supplied by the orchestrator.
func FormatEmpty(reason EmptyReason) string {
	if reason == ReasonNone {
		return emptyNotice
	}
	return fmt.Sprintf("%s (%s)", emptyNotice, reason)
}

// formatAmount renders a numeric-looking field with thousands separators,
// leaving anything that doesn't parse untouched. 숫자가 아니어도 에러가
// 아니라 원문 그대로 보여준다.
func formatAmount(v, suffix string) string {
	if v == "" {
		return ""
	}

	s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}

	return humanize.Comma(int64(math.Round(f))) + suffix
}
