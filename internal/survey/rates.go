package survey

import (
	"math"
	"strings"
)

// MatchTool returns the count for tool in c. An exact label wins; when it is
// absent every label is compared case-insensitively for containment in either
// direction and the last matching label in first-seen order supplies the
// count. That is not the largest match: with "MS Copilot" seen before
// "GitHub Copilot", a lookup for "Copilot" returns the GitHub Copilot count.
func MatchTool(c *ItemCounter, tool string) int {
	count := c.Count(tool)
	if count != 0 {
		return count
	}
	t := strings.ToLower(tool)
	for _, label := range c.Labels() {
		l := strings.ToLower(label)
		if strings.Contains(l, t) || strings.Contains(t, l) {
			count = c.Count(label)
		}
	}
	return count
}

// Rates returns each tool's adoption percentage within rows, aligned with
// tools. Percentages are independent: multi-select rows can push the sum
// over 100.
func Rates(rows []Row, column string, tools []string) []int {
	out := make([]int, len(tools))
	n := len(rows)
	if n == 0 {
		return out
	}
	counter := Aggregate(Values(rows, column))
	for i, tool := range tools {
		out[i] = Percent(MatchTool(counter, tool), n)
	}
	return out
}

// Percent is round(part / whole * 100), or 0 for an empty whole.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
