package score

// 시트의 강도 표기는 별 글리프 문자열 ("★★★☆" 등).
// 표시용으로는 원문을 그대로 쓰고, 정렬용으로만 숫자로 바꾼다.
const (
	// FullGlyph contributes 1.0 to the parsed score
	FullGlyph = '★'
	// HalfGlyph contributes 0.5 to the parsed score
	HalfGlyph = '☆'
)

// Parse converts a star-based strength indicator into a comparable value.
// Unrecognized runes contribute nothing, so a free-text or numeric score
// conservatively parses to 0.0. No ceiling is enforced; the value is only
// used for relative ordering.
func Parse(raw string) float64 {
	var total float64
	for _, r := range raw {
		switch r {
		case FullGlyph:
			total += 1.0
		case HalfGlyph:
			total += 0.5
		}
	}
	return total
}
