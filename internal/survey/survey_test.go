package survey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	colAff    = "Q1. 귀하의 소속은?"
	colTenure = "Q2. 근속 연수는?"
	colMajor  = "Q3. 전공 계열은?"
	colChat   = "Q4. 최근 3개월 내 사용한 대화형 AI는?"
	colPaid   = "Q5. 유료로 결제 중인 대화형 AI는?"
	colAmount = "Q16. 월 평균 AI 결제 금액은?"
	colPain   = "Q20. 가장 귀찮은 업무는?"
)

func fixtureTable() *Table {
	header := []string{colAff, colTenure, colMajor, colChat, colPaid, colAmount, colPain}
	records := [][]string{
		{"신입사원", "", "공학", "ChatGPT, Claude", "ChatGPT", "0원 초과 ~ 5만원 미만", "데이터 정리"},
		{"신입사원", "", "경영", "ChatGPT", "유료 결제 없음", "0원 (유료 결제 없음)", "-"},
		{"신입사원", "1년 미만", "공학", "사용 안 함", "", "", "회의록 작성, 메일"},
		{"기존직원", "1년 이상 ~ 5년 미만", "인문", "ChatGPT, Gemini", "ChatGPT, Gemini", "5만원 이상 ~ 10만원 미만", "보고서 PPT"},
		{"기존직원", "1년 이상 ~ 5년 미만", "공학", "ChatGPT", "ChatGPT", "20만원 이상", "없음"},
		{"기존직원", "15년 이상", "경영", "Microsoft Copilot", "", "10만원 이상 ~ 20만원 미만", "영수증 처리"},
		{"기존직원", "모름", "", "ChatGPT, Claude", "유료 결제 없음", "0원 (유료 결제 없음)", ""},
		{"", "", "", "ChatGPT", "", "", ""},
		{"", "", "", "", "", "", ""},
	}
	return NewTable(header, records)
}

func TestNewTableDropsBlankRowsAndPads(t *testing.T) {
	tbl := NewTable([]string{"\ufeffa", "b", "a"}, [][]string{{"1"}, {"", ""}, {"x", "y", "z"}})
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "", tbl.Rows[0]["b"])
	assert.Equal(t, "z", tbl.Rows[1]["a"], "later duplicate header wins in the row")
}

func TestResolveColumn(t *testing.T) {
	cases := []struct {
		name     string
		headers  []string
		keywords []string
		want     string
		ok       bool
	}{
		{"strict beats earlier loose", []string{"A tenure", "Q2 tenure"}, []string{"Q2", "tenure"}, "Q2 tenure", true},
		{"first strict wins", []string{"Q2 tenure code", "Q2 tenure"}, []string{"Q2", "tenure"}, "Q2 tenure code", true},
		{"loose fallback in column order", []string{"x", "tenure only", "Q2 other"}, []string{"Q2", "tenure"}, "tenure only", true},
		{"absent", []string{"a", "b"}, []string{"Q2"}, "", false},
		{"empty keywords match first header", []string{"a", "b"}, nil, "a", true},
		{"no headers", nil, []string{"Q2"}, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ResolveColumn(c.headers, c.keywords)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestResolveColumnAbsentIffNoLooseMatch(t *testing.T) {
	headers := []string{"Q1. 소속", "Q4. 대화형 AI", "Q16. 금액"}
	for _, kws := range [][]string{{"Q9"}, {"Q9", "없는"}, {"소속"}, {"Q9", "금액"}} {
		_, ok := ResolveColumn(headers, kws)
		anyHit := false
		for _, h := range headers {
			if containsAny(h, kws) {
				anyHit = true
			}
		}
		assert.Equal(t, anyHit, ok, "keywords %v", kws)
	}
}

func TestAggregate(t *testing.T) {
	c := Aggregate([]string{"ChatGPT, Claude", "사용 안함", ""})
	assert.Equal(t, map[string]int{"ChatGPT": 1, "Claude": 1}, c.Map())

	c = Aggregate([]string{"Claude,  ChatGPT ", "ChatGPT, 해당 없음, Claude"})
	assert.Equal(t, []string{"Claude", "ChatGPT"}, c.Labels())
	assert.Equal(t, 2, c.Count("ChatGPT"))
	assert.Equal(t, 2, c.Count("Claude"))
	assert.Equal(t, 0, c.Count("해당 없음"))

	c = Aggregate([]string{"Claude, Claude, ChatGPT", "Claude"})
	assert.Equal(t, map[string]int{"Claude": 2, "ChatGPT": 1}, c.Map())
}

func TestAggregateSplitsOnCommaSpaceOnly(t *testing.T) {
	c := Aggregate([]string{"DALL-E,Midjourney"})
	assert.Equal(t, 1, c.Count("DALL-E,Midjourney"))
	assert.Equal(t, 1, c.Len())
}

func TestMatchToolExactWins(t *testing.T) {
	c := NewItemCounter()
	for i := 0; i < 5; i++ {
		c.Add("GitHub Copilot")
	}
	c.Add("Copilot")
	c.Add("Copilot")
	assert.Equal(t, 2, MatchTool(c, "Copilot"))
}

func TestMatchToolLastFuzzyMatchWins(t *testing.T) {
	c := NewItemCounter()
	c.Add("MS Copilot")
	for i := 0; i < 5; i++ {
		c.Add("GitHub Copilot")
	}
	// both contain "copilot"; GitHub Copilot was seen last
	assert.Equal(t, 5, MatchTool(c, "Copilot"))

	c = NewItemCounter()
	for i := 0; i < 5; i++ {
		c.Add("GitHub Copilot")
	}
	c.Add("MS Copilot")
	assert.Equal(t, 1, MatchTool(c, "Copilot"), "last match, not the largest")
}

func TestMatchToolReverseContainmentAndCase(t *testing.T) {
	c := NewItemCounter()
	c.Add("claude")
	c.Add("claude")
	assert.Equal(t, 2, MatchTool(c, "Claude Code"))
	assert.Equal(t, 0, MatchTool(c, "Cursor"))
}

func TestRates(t *testing.T) {
	rows := []Row{
		{"q": "ChatGPT, Claude"},
		{"q": "ChatGPT"},
		{"q": "사용 안 함"},
	}
	got := Rates(rows, "q", []string{"ChatGPT", "Claude", "Gemini"})
	assert.Equal(t, []int{67, 33, 0}, got)

	assert.Equal(t, []int{0, 0}, Rates(nil, "q", []string{"a", "b"}))
	assert.Equal(t, []int{0}, Rates(rows, "", []string{"ChatGPT"}))
}

func TestRatesRepeatedOptionsStayWithinBounds(t *testing.T) {
	rows := []Row{{"q": "A, A, A"}, {"q": "A"}}
	assert.Equal(t, []int{100}, Rates(rows, "q", []string{"A"}))

	rows = []Row{{"q": "ChatGPT, ChatGPT"}, {"q": "ChatGPT, chatgpt"}, {"q": "Claude"}}
	got := Rates(rows, "q", []string{"ChatGPT", "Claude", "chat"})
	assert.Equal(t, []int{67, 33, 33}, got)
	for _, r := range got {
		assert.LessOrEqual(t, r, 100)
	}
}

func TestSplitCohorts(t *testing.T) {
	var rows []Row
	for i := 0; i < 3; i++ {
		rows = append(rows, Row{"aff": "신입사원"})
	}
	for i := 0; i < 7; i++ {
		rows = append(rows, Row{"aff": "기존직원"})
	}
	tbl := &Table{Columns: []string{"aff"}, Rows: rows}
	c := SplitCohorts(tbl.Rows, "aff")
	assert.Len(t, c.NewHire, 3)
	assert.Len(t, c.Veteran, 7)
	assert.Equal(t, 10, tbl.Len())

	c = SplitCohorts(rows, "")
	assert.Empty(t, c.NewHire)
	assert.Empty(t, c.Veteran)
}

func TestSplitCohortsExcludesBlankAffiliation(t *testing.T) {
	tbl := fixtureTable()
	c := SplitCohorts(tbl.Rows, colAff)
	assert.Len(t, c.NewHire, 3)
	assert.Len(t, c.Veteran, 4)
	assert.Equal(t, 8, tbl.Len())
}

func TestSplitByTenureDoubleCountsNewHireWithTenure(t *testing.T) {
	tbl := fixtureTable()
	groups := SplitByTenure(tbl.Rows, colTenure, colAff)
	var bands []string
	sizes := map[string]int{}
	for _, g := range groups {
		bands = append(bands, g.Short)
		sizes[g.Band] = len(g.Rows)
	}
	assert.Equal(t, []string{"신입", "~1년", "1-5년", "15년+"}, bands)
	assert.Equal(t, 3, sizes["신입"])
	assert.Equal(t, 1, sizes["1년 미만"], "the new hire who answered tenure is also here")
	assert.Equal(t, 2, sizes["1년 이상 ~ 5년 미만"])
	_, unknown := sizes["모름"]
	assert.False(t, unknown)
}

func TestBucketize(t *testing.T) {
	cases := map[string]float64{
		"":                         0,
		"0원 (유료 결제 없음)":            0,
		"0원 초과 ~ 5만원 미만":           2.5,
		"5만원 이상 ~ 10만원 미만":        7.5,
		"10만원 이상 ~ 20만원 미만":       15,
		"20만원 이상":                  25,
		"기타":                       0,
	}
	for in, want := range cases {
		assert.Equal(t, want, Bucketize(in), in)
	}
}

func TestAverageSpendOrderInvariant(t *testing.T) {
	rows := []Row{
		{"p": "20만원 이상"},
		{"p": "0원 초과 ~ 5만원 미만"},
		{"p": ""},
		{"p": "5만원 이상 ~ 10만원 미만"},
	}
	rev := []Row{rows[3], rows[2], rows[1], rows[0]}
	assert.InDelta(t, 8.75, AverageSpend(rows, "p"), 1e-9)
	assert.InDelta(t, AverageSpend(rows, "p"), AverageSpend(rev, "p"), 1e-9)
	assert.InDelta(t, 0.75, PaidRate(rows, "p"), 1e-9)
	assert.Equal(t, 0.0, AverageSpend(nil, "p"))
	assert.Equal(t, 0.0, PaidRate(nil, "p"))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(fixtureTable())
	assert.Equal(t, Stats{Total: 8, Rookie: 3, Veteran: 4, PaidRate: 50}, s)

	noAff := NewTable([]string{"x"}, [][]string{{"1"}, {"2"}})
	assert.Equal(t, Stats{Total: 2}, ComputeStats(noAff))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestChartData(t *testing.T) {
	rows := ChartData(fixtureTable(), ConversationalQuestion)
	require.Len(t, rows, len(ConversationalQuestion.Tools))
	byName := map[string]ToolUsage{}
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.Equal(t, ToolUsage{Name: "ChatGPT", NewHire: 67, Veteran: 75}, byName["ChatGPT"])
	assert.Equal(t, ToolUsage{Name: "Claude", NewHire: 33, Veteran: 25}, byName["Claude"])
	assert.Equal(t, ToolUsage{Name: "Copilot", NewHire: 0, Veteran: 25}, byName["Copilot"])

	// no Q8 column: the loose pass lands on the Q4 column via "사용한"
	img := ChartData(fixtureTable(), ImageQuestion)
	require.Len(t, img, len(ImageQuestion.Tools))
	for _, r := range img {
		assert.Zero(t, r.NewHire)
		assert.Zero(t, r.Veteran)
	}

	noAff := NewTable([]string{colChat}, [][]string{{"ChatGPT"}})
	assert.Empty(t, ChartData(noAff, ConversationalQuestion))
}

func TestChartRatesWithinPercentRange(t *testing.T) {
	for _, q := range ToolQuestions {
		for _, r := range ChartData(fixtureTable(), q) {
			assert.True(t, r.NewHire >= 0 && r.NewHire <= 100, "%s %+v", q.Key, r)
			assert.True(t, r.Veteran >= 0 && r.Veteran <= 100, "%s %+v", q.Key, r)
		}
	}
}

func TestToolUsageJSONKeys(t *testing.T) {
	b, err := json.Marshal(ToolUsage{Name: "Claude", NewHire: 10, Veteran: 20})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Claude","신입":10,"기존":20}`, string(b))
}

func TestTenureStats(t *testing.T) {
	got := TenureStats(fixtureTable())
	require.Len(t, got, 4)
	assert.Equal(t, TenureStat{Tenure: "신입", FullTenure: "신입", Count: 3, PaidRate: 33, AvgPayment: 0.8}, got[0])
	assert.Equal(t, TenureStat{Tenure: "1-5년", FullTenure: "1년 이상 ~ 5년 미만", Count: 2, PaidRate: 100, AvgPayment: 16.3}, got[2])
	assert.Equal(t, TenureStat{Tenure: "15년+", FullTenure: "15년 이상", Count: 1, PaidRate: 100, AvgPayment: 15}, got[3])
}

func TestMajorDistribution(t *testing.T) {
	got := MajorDistribution(fixtureTable())
	assert.Equal(t, []NamedCount{{"공학", 3}, {"경영", 2}, {"인문", 1}}, got)
}

func TestConversionDropsSmallToolsAndSorts(t *testing.T) {
	got := ConversionData(fixtureTable())
	require.Len(t, got, 1)
	assert.Equal(t, "💬 대화형 AI", got[0].Category)
	require.Len(t, got[0].Data, 1)
	assert.Equal(t, Conversion{Name: "ChatGPT", Users: 6, Paid: 3, Rate: 50}, got[0].Data[0])
}

func TestPainPointData(t *testing.T) {
	pp := PainPointData(fixtureTable())
	assert.Equal(t, []string{"데이터 정리", "회의록 작성, 메일", "보고서 PPT", "영수증 처리"}, pp.All)
	assert.Equal(t, []NamedCount{
		{"데이터 복붙/처리", 2},
		{"영수증/전표 처리", 1},
		{"보고서/PPT 작성", 1},
		{"회의록 정리", 1},
		{"메일 관련", 1},
	}, pp.Top)
}

func TestPaymentDistribution(t *testing.T) {
	tbl := fixtureTable()
	got := PaymentDistribution(tbl.Rows, colAmount)
	assert.Equal(t, []PaymentSlice{
		{Name: "0원", Value: 2, FullName: "0원 (유료 결제 없음)"},
		{Name: "~5만원", Value: 1, FullName: "0원 초과 ~ 5만원 미만"},
		{Name: "5~10만원", Value: 1, FullName: "5만원 이상 ~ 10만원 미만"},
		{Name: "10~20만원", Value: 1, FullName: "10만원 이상 ~ 20만원 미만"},
		{Name: "20만원+", Value: 1, FullName: "20만원 이상"},
	}, got)
	assert.Nil(t, PaymentDistribution(tbl.Rows, ""))
}

func TestBuildDashboardDeterministic(t *testing.T) {
	tbl := fixtureTable()
	a, err := json.Marshal(BuildDashboard(tbl))
	require.NoError(t, err)
	b, err := json.Marshal(BuildDashboard(tbl))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
