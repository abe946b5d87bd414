package survey

// Markers and labels below match the published survey form text exactly.
const (
	NewHireMarker = "신입"
	NewHireBand   = "신입"

	// CheckboxDelimiter joins selected options in an exported checkbox cell.
	CheckboxDelimiter = ", "

	noPaidSpendLabel = "0원 (유료 결제 없음)"
	noPaidMarker     = "유료 결제 없음"
)

// ExcludeKeywords mark a checkbox option meaning "not used / none / n.a.".
var ExcludeKeywords = []string{"사용 안", "없음", "안 함", "해당"}

// Column keyword queries for the logical survey fields.
var (
	AffiliationKeywords = []string{"소속"}
	TenureKeywords      = []string{"Q2", "근속"}
	MajorKeywords       = []string{"Q3", "전공"}
	PaymentKeywords     = []string{"Q16", "금액"}
	PainPointKeywords   = []string{"Q20", "귀찮은"}
)

// Question pairs a multi-select column query with the tools charted for it.
type Question struct {
	Key      string
	Title    string
	Keywords []string
	Tools    []string
}

var (
	ConversationalQuestion = Question{
		Key:      "conversational",
		Title:    "대화형 AI",
		Keywords: []string{"Q4", "대화형", "사용한"},
		Tools:    []string{"ChatGPT", "Claude", "Gemini", "뤼튼", "Copilot", "Perplexity"},
	}
	CodingQuestion = Question{
		Key:      "coding",
		Title:    "코딩·개발 AI",
		Keywords: []string{"Q6", "코딩", "사용한"},
		Tools:    []string{"GitHub Copilot", "Cursor", "Google Colab", "Replit", "Claude Code"},
	}
	ImageQuestion = Question{
		Key:      "image",
		Title:    "이미지 AI",
		Keywords: []string{"Q8", "이미지", "사용한"},
		Tools:    []string{"Midjourney", "DALL-E", "Stable Diffusion", "Canva AI", "Adobe Firefly"},
	}
)

// ToolQuestions lists the charted multi-select questions in display order.
var ToolQuestions = []Question{ConversationalQuestion, CodingQuestion, ImageQuestion}

// TenureBands is the fixed tenure enumeration, shortest service first.
var TenureBands = []string{
	"1년 미만",
	"1년 이상 ~ 5년 미만",
	"5년 이상 ~ 10년 미만",
	"10년 이상 ~ 15년 미만",
	"15년 이상",
}

// TenureShortLabels are chart labels aligned with TenureBands.
var TenureShortLabels = []string{"~1년", "1-5년", "5-10년", "10-15년", "15년+"}
