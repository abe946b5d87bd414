package survey

import (
	"sort"
	"strings"
)

// minConversionUsers hides tools with too few users for a meaningful rate.
const minConversionUsers = 3

type conversionTool struct {
	name    string
	paidKey string
}

type conversionQuestion struct {
	name    string
	useCol  []string
	paidCol []string
	tools   []conversionTool
}

var conversionQuestions = []conversionQuestion{
	{
		name:    "💬 대화형 AI",
		useCol:  []string{"Q4", "대화형", "사용한"},
		paidCol: []string{"Q5", "대화형", "유료"},
		tools: []conversionTool{
			{"ChatGPT", "ChatGPT"}, {"Claude", "Claude"}, {"Gemini", "Gemini"},
			{"Perplexity", "Perplexity"}, {"Copilot", "Copilot"},
		},
	},
	{
		name:    "💻 코딩·개발 AI",
		useCol:  []string{"Q6", "코딩", "사용한"},
		paidCol: []string{"Q7", "코딩", "유료"},
		tools: []conversionTool{
			{"Cursor", "Cursor"}, {"Google Colab", "Colab"}, {"GitHub Copilot", "Copilot"},
		},
	},
	{
		name:    "📝 문서·생산성 AI",
		useCol:  []string{"Q12", "문서", "사용한"},
		paidCol: []string{"Q13", "문서", "유료"},
		tools: []conversionTool{
			{"Google Workspace AI", "Google Workspace"}, {"Notion AI", "Notion"}, {"MS Copilot", "MS Copilot"},
		},
	},
	{
		name:    "🔄 자동화/노코드",
		useCol:  []string{"Q14", "자동화", "사용한"},
		paidCol: []string{"Q15", "자동화", "유료"},
		tools: []conversionTool{
			{"n8n", "n8n"}, {"Make", "Make"}, {"Zapier", "Zapier"},
		},
	},
}

// Conversion is the paid conversion of one tool among its users.
type Conversion struct {
	Name  string `json:"name"`
	Users int    `json:"users"`
	Paid  int    `json:"paid"`
	Rate  int    `json:"rate"`
}

// ConversionCategory groups conversions for one tool category.
type ConversionCategory struct {
	Category string       `json:"category"`
	Data     []Conversion `json:"data"`
}

// ConversionData pairs each "which tools do you use" question with its
// "which do you pay for" question. Tools with fewer than three users are
// dropped, the rest sorted by conversion rate, and empty categories omitted.
func ConversionData(t *Table) []ConversionCategory {
	if t.Len() == 0 {
		return nil
	}
	var out []ConversionCategory
	for _, q := range conversionQuestions {
		useCol, ok1 := t.Resolve(q.useCol...)
		paidCol, ok2 := t.Resolve(q.paidCol...)
		if !ok1 || !ok2 {
			continue
		}
		var data []Conversion
		for _, tool := range q.tools {
			cv := Conversion{Name: tool.name}
			for _, r := range t.Rows {
				if !strings.Contains(r.Get(useCol), tool.name) {
					continue
				}
				cv.Users++
				paid := r.Get(paidCol)
				if strings.Contains(paid, tool.paidKey) && !strings.Contains(paid, noPaidMarker) {
					cv.Paid++
				}
			}
			cv.Rate = Percent(cv.Paid, cv.Users)
			if cv.Users >= minConversionUsers {
				data = append(data, cv)
			}
		}
		if len(data) == 0 {
			continue
		}
		sort.SliceStable(data, func(i, j int) bool { return data[i].Rate > data[j].Rate })
		out = append(out, ConversionCategory{Category: q.name, Data: data})
	}
	return out
}
