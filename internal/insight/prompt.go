package insight

import (
	"fmt"
	"strings"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
)

// Request is the body of POST /api/insights.
type Request struct {
	Stats      *survey.Stats       `json:"stats"`
	ChartData  []survey.ToolUsage  `json:"chartData"`
	PaidRatio  *float64            `json:"paidRatio,omitempty"`
	YearlyPaid []survey.TenureStat `json:"yearlyPaid,omitempty"`
}

// Response is the insight endpoint reply. Status is the HTTP status the
// server answers with and is not serialized.
type Response struct {
	Insights string `json:"insights"`
	Status   int    `json:"-"`
}

// NewRequest builds the request the dashboard sends for a table snapshot:
// headline stats plus the conversational AI chart.
func NewRequest(t *survey.Table) Request {
	stats := survey.ComputeStats(t)
	paid := float64(stats.PaidRate)
	return Request{
		Stats:      &stats,
		ChartData:  survey.ChartData(t, survey.ConversationalQuestion),
		PaidRatio:  &paid,
		YearlyPaid: survey.TenureStats(t),
	}
}

const noChartData = "- 데이터 수집 중"

// FormatPrompt renders req into the analyst instruction sent to the model.
// Stats must be non-nil.
func FormatPrompt(req Request) string {
	s := req.Stats
	var b strings.Builder
	b.WriteString("당신은 KPC(한국생산성본부) AI 전환센터의 데이터 분석가입니다.\n")
	b.WriteString("아래 설문 결과를 바탕으로 신입사원 교육 발표용 인사이트를 작성해주세요.\n\n")

	b.WriteString("[응답자 현황]\n")
	fmt.Fprintf(&b, "- 총 응답자: %d명\n", s.Total)
	fmt.Fprintf(&b, "- 신입사원: %d명 (%d%%)\n", s.Rookie, survey.Percent(s.Rookie, s.Total))
	fmt.Fprintf(&b, "- 기존직원: %d명 (%d%%)\n\n", s.Veteran, survey.Percent(s.Veteran, s.Total))

	b.WriteString("[대화형 AI 사용률 - 그룹 내 비율]\n")
	if len(req.ChartData) == 0 {
		b.WriteString(noChartData + "\n")
	}
	for _, row := range req.ChartData {
		fmt.Fprintf(&b, "- %s: 신입 %d%% / 기존 %d%%\n", row.Name, row.NewHire, row.Veteran)
	}
	b.WriteString("\n")

	if req.PaidRatio != nil {
		b.WriteString("[유료 AI 결제 현황]\n")
		fmt.Fprintf(&b, "- 유료 결제 비율: %.0f%%\n\n", *req.PaidRatio)
	}
	if len(req.YearlyPaid) > 0 {
		b.WriteString("[근속연수별 유료 결제]\n")
		for _, ts := range req.YearlyPaid {
			fmt.Fprintf(&b, "- %s: %d명, 유료 결제 %d%%, 평균 %.1f만원\n", ts.FullTenure, ts.Count, ts.PaidRate, ts.AvgPayment)
		}
		b.WriteString("\n")
	}

	b.WriteString(`다음 형식으로 작성해주세요:

## 🎯 핵심 발견
1. (신입 vs 기존 비교 인사이트 - 구체적 수치 포함)
2. (가장 많이 사용하는 도구 분석)
3. (주목할 만한 차이점)

## 💬 신입사원에게 한마디
(환영 & 동기부여 메시지, 2-3문장. 따뜻하고 응원하는 톤으로!)

## 🚀 KPC AI전환센터의 제안
(AI 활용 팁 1가지)

톤: 친근하고 활기차게, 이모지 적절히 사용
분량: 총 300단어 내외
`)
	return b.String()
}
