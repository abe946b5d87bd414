package survey

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Stats are the headline respondent counts.
type Stats struct {
	Total    int `json:"total"`
	Rookie   int `json:"rookie"`
	Veteran  int `json:"veteran"`
	PaidRate int `json:"paidRate"`
}

// ToolUsage is one chart row: a tool's adoption percentage per cohort.
// The JSON keys are the cohort labels the front end plots.
type ToolUsage struct {
	Name    string `json:"name"`
	NewHire int    `json:"신입"`
	Veteran int    `json:"기존"`
}

// ToolChart is the chart for one multi-select question.
type ToolChart struct {
	Key   string      `json:"key"`
	Title string      `json:"title"`
	Rows  []ToolUsage `json:"rows"`
}

// TenureStat summarises spend for one tenure band.
type TenureStat struct {
	Tenure     string  `json:"tenure"`
	FullTenure string  `json:"fullTenure"`
	Count      int     `json:"count"`
	PaidRate   int     `json:"paidRate"`
	AvgPayment float64 `json:"avgPayment"`
}

// NamedCount is a label with its number of respondents.
type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Dashboard is every derived view of one table snapshot.
type Dashboard struct {
	Stats      Stats                `json:"stats"`
	Charts     []ToolChart          `json:"charts"`
	Tenure     []TenureStat         `json:"tenure"`
	Majors     []NamedCount         `json:"majors"`
	Conversion []ConversionCategory `json:"conversion"`
	PainPoints PainPoints           `json:"painPoints"`
	Payments   []PaymentSlice       `json:"payments"`
}

// BuildDashboard derives all views from t. It is a pure function of t.
func BuildDashboard(t *Table) *Dashboard {
	d := &Dashboard{Stats: ComputeStats(t)}
	for _, q := range ToolQuestions {
		d.Charts = append(d.Charts, ToolChart{Key: q.Key, Title: q.Title, Rows: ChartData(t, q)})
	}
	d.Tenure = TenureStats(t)
	d.Majors = MajorDistribution(t)
	d.Conversion = ConversionData(t)
	d.PainPoints = PainPointData(t)
	if t != nil {
		payCol, _ := t.Resolve(PaymentKeywords...)
		d.Payments = PaymentDistribution(t.Rows, payCol)
	}
	return d
}

// ComputeStats counts respondents per cohort and the overall paid rate.
func ComputeStats(t *Table) Stats {
	if t.Len() == 0 {
		return Stats{}
	}
	affCol, ok := t.Resolve(AffiliationKeywords...)
	if !ok {
		return Stats{Total: t.Len()}
	}
	c := SplitCohorts(t.Rows, affCol)
	s := Stats{Total: t.Len(), Rookie: len(c.NewHire), Veteran: len(c.Veteran)}
	if payCol, ok := t.Resolve(PaymentKeywords...); ok {
		s.PaidRate = int(roundTo(PaidRate(t.Rows, payCol)*100, 0))
	}
	return s
}

// ChartData computes per-cohort adoption for q's tools. It is empty when the
// affiliation or question column is missing from the sheet.
func ChartData(t *Table, q Question) []ToolUsage {
	if t.Len() == 0 {
		return nil
	}
	affCol, ok := t.Resolve(AffiliationKeywords...)
	if !ok {
		return nil
	}
	target, ok := t.Resolve(q.Keywords...)
	if !ok {
		return nil
	}
	c := SplitCohorts(t.Rows, affCol)
	hire := Rates(c.NewHire, target, q.Tools)
	vet := Rates(c.Veteran, target, q.Tools)
	return lo.Map(q.Tools, func(tool string, i int) ToolUsage {
		return ToolUsage{Name: tool, NewHire: hire[i], Veteran: vet[i]}
	})
}

// TenureStats reports count, paid rate and average spend per tenure band.
// It needs the payment column; tenure and affiliation are each optional.
func TenureStats(t *Table) []TenureStat {
	if t.Len() == 0 {
		return nil
	}
	payCol, ok := t.Resolve(PaymentKeywords...)
	if !ok {
		return nil
	}
	affCol, _ := t.Resolve(AffiliationKeywords...)
	tenureCol, _ := t.Resolve(TenureKeywords...)
	groups := SplitByTenure(t.Rows, tenureCol, affCol)
	return lo.Map(groups, func(g TenureGroup, _ int) TenureStat {
		return TenureStat{
			Tenure:     g.Short,
			FullTenure: g.Band,
			Count:      len(g.Rows),
			PaidRate:   int(roundTo(PaidRate(g.Rows, payCol)*100, 0)),
			AvgPayment: roundTo(AverageSpend(g.Rows, payCol), 1),
		}
	})
}

// MajorDistribution counts answers to the major question, most common first.
func MajorDistribution(t *Table) []NamedCount {
	if t.Len() == 0 {
		return nil
	}
	col, ok := t.Resolve(MajorKeywords...)
	if !ok {
		return nil
	}
	c := NewItemCounter()
	for _, r := range t.Rows {
		if v := r.Get(col); v != "" {
			c.Add(v)
		}
	}
	return sortedCounts(c)
}

func sortedCounts(c *ItemCounter) []NamedCount {
	out := lo.Map(c.Labels(), func(l string, _ int) NamedCount {
		return NamedCount{Name: l, Value: c.Count(l)}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// PainPoints holds categorised free-text answers about tedious work.
type PainPoints struct {
	Top []NamedCount `json:"top5"`
	All []string     `json:"all"`
}

type painCategory struct {
	name     string
	keywords []string
}

var painCategories = []painCategory{
	{"데이터 복붙/처리", []string{"데이터", "복붙", "처리", "정리", "편집"}},
	{"행정/기안/공문", []string{"행정", "기안", "공문"}},
	{"영수증/전표 처리", []string{"영수증", "전표", "정산", "erp"}},
	{"보고서/PPT 작성", []string{"보고서", "ppt", "장표"}},
	{"회의록 정리", []string{"회의록"}},
	{"메일 관련", []string{"메일", "이메일"}},
}

var painSkip = map[string]bool{"": true, "-": true, ".": true, "없음": true}

// PainPointData tallies free-text answers into fixed keyword categories. One
// answer can count towards several categories. Top keeps at most five
// non-zero categories.
func PainPointData(t *Table) PainPoints {
	var pp PainPoints
	if t.Len() == 0 {
		return pp
	}
	col, ok := t.Resolve(PainPointKeywords...)
	if !ok {
		return pp
	}
	counts := make([]int, len(painCategories))
	for _, r := range t.Rows {
		v := strings.TrimSpace(r.Get(col))
		if painSkip[v] {
			continue
		}
		pp.All = append(pp.All, v)
		lower := strings.ToLower(v)
		for i, cat := range painCategories {
			if containsAny(lower, cat.keywords) {
				counts[i]++
			}
		}
	}
	top := make([]NamedCount, len(painCategories))
	for i, cat := range painCategories {
		top[i] = NamedCount{Name: cat.name, Value: counts[i]}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Value > top[j].Value })
	if len(top) > 5 {
		top = top[:5]
	}
	pp.Top = lo.Filter(top, func(n NamedCount, _ int) bool { return n.Value > 0 })
	return pp
}
