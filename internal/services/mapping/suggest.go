package mapping

import (
	"math"
	"strings"

	"document-fill-backend/internal/models"
)

// Confidence thresholds for mapping suggestions.
const (
	thresholdHigh   = 0.9
	thresholdMedium = 0.7
)

type Suggestion struct {
	Column      string  `json:"column"`
	Placeholder string  `json:"placeholder"`
	Confidence  float64 `json:"confidence"`
	Level       string  `json:"level"` // "high" or "medium"
}

// Suggest proposes a column -> placeholder mapping by fuzzy name
// similarity. Only matches at or above the medium threshold are
// returned; each placeholder is suggested at most once.
func Suggest(columns, placeholders []string) []Suggestion {
	taken := make(map[string]bool, len(placeholders))
	var suggestions []Suggestion

	for _, column := range columns {
		best := ""
		bestScore := 0.0
		for _, ph := range placeholders {
			if taken[ph] {
				continue
			}
			score := similarity(column, ph)
			if score > bestScore {
				best = ph
				bestScore = score
			}
		}

		if best == "" || bestScore < thresholdMedium {
			continue
		}

		level := "medium"
		if bestScore >= thresholdHigh {
			level = "high"
		}
		taken[best] = true
		suggestions = append(suggestions, Suggestion{
			Column:      column,
			Placeholder: best,
			Confidence:  bestScore,
			Level:       level,
		})
	}
	return suggestions
}

// SuggestEntries converts suggestions into mapping entries, ready to be
// stored on a Mapping.
func SuggestEntries(columns, placeholders []string) []models.MappingEntry {
	suggestions := Suggest(columns, placeholders)
	entries := make([]models.MappingEntry, 0, len(suggestions))
	for _, s := range suggestions {
		entries = append(entries, models.MappingEntry{Column: s.Column, Placeholder: s.Placeholder})
	}
	return entries
}

// synonymGroups list field names that mean the same thing; two names
// falling in one group score 0.95.
var synonymGroups = [][]string{
	{"名称", "姓名", "名字", "客户", "用户", "公司", "单位"},
	{"姓名", "名称", "名字", "联系人"},
	{"日期", "时间", "年月日", "日期时间"},
	{"金额", "价格", "费用", "总价", "合计", "小计", "数值"},
	{"数量", "数目", "个数", "件数"},
	{"地址", "位置", "地点", "住址"},
	{"电话", "手机", "联系方式", "移动电话", "座机"},
}

// fieldSuffixes collapse a compound field name to its category
// ("客户名称" -> "名称") for category-level comparison.
var fieldSuffixes = []string{"名称", "姓名", "日期", "时间", "金额", "价格", "数量", "地址"}

func similarity(a, b string) float64 {
	an := normalize(a)
	bn := normalize(b)
	if an == "" || bn == "" {
		return 0
	}
	if an == bn {
		return 1
	}

	dist := levenshtein(an, bn)
	maxLen := math.Max(float64(len(an)), float64(len(bn)))
	score := 1 - float64(dist)/maxLen

	if strings.Contains(an, bn) || strings.Contains(bn, an) {
		score = math.Max(score, 0.8)
	}
	if synonymScore(a, b) > score {
		score = synonymScore(a, b)
	}
	if ca, cb := fieldCategory(a), fieldCategory(b); ca != "" && ca == cb {
		score = math.Max(score, 0.9)
	}
	return score
}

// synonymScore reports 0.95 when both names fall in one synonym group,
// either by containing a group member or by their category being one.
func synonymScore(a, b string) float64 {
	ca, cb := fieldCategory(a), fieldCategory(b)
	for _, group := range synonymGroups {
		if overlapsGroup(group, a) && overlapsGroup(group, b) {
			return 0.95
		}
		if inGroup(group, ca) && inGroup(group, cb) {
			return 0.95
		}
	}
	return 0
}

func overlapsGroup(group []string, s string) bool {
	for _, member := range group {
		if strings.Contains(s, member) || strings.Contains(member, s) {
			return true
		}
	}
	return false
}

func inGroup(group []string, s string) bool {
	for _, member := range group {
		if member == s {
			return true
		}
	}
	return false
}

func fieldCategory(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range fieldSuffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return suffix
		}
	}
	return s
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		dp[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		dp[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			dp[i][j] = minOf(
				dp[i-1][j]+1,
				dp[i][j-1]+1,
				dp[i-1][j-1]+cost,
			)
		}
	}
	return dp[len(a)][len(b)]
}

func minOf(a, b, c int) int {
	if a < b && a < c {
		return a
	}
	if b < c {
		return b
	}
	return c
}
