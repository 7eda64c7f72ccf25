package textutil

import (
	"strings"
	"unicode"
)

// NormalizeName canonicalizes a stock name for join-key comparison.
// 공백만 다른 이름은 같은 키로 매칭되어야 함 ("삼성 전자" == "삼성전자")
// The result is only ever used as a join key, never displayed.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
