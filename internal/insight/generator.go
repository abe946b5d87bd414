package insight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/ai"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/utils"
)

// Placeholder texts shown in place of insights. They are part of the
// front end contract and must stay byte-identical.
const (
	MissingKeyText = "⚠️ GOOGLE_API_KEY 환경변수가 설정되지 않았습니다. Vercel 환경변수를 확인해주세요."
	NoDataText     = "⚠️ 아직 응답 데이터가 없습니다. 설문 응답 후 다시 시도해주세요."
	failureFormat  = "⚠️ AI 인사이트 생성 중 오류가 발생했습니다.\n\n에러: %s\n\n환경변수(GOOGLE_API_KEY)와 API 할당량을 확인해주세요."
)

// FailureText is the placeholder for a failed model call.
func FailureText(err error) string {
	msg := "알 수 없는 오류"
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf(failureFormat, msg)
}

// Generator turns aggregate statistics into model-written commentary.
type Generator struct {
	runtime     ai.Runtime
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *log.Logger
}

// Options configures a Generator.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// Timeout bounds one Generate call; zero means no extra bound.
	Timeout time.Duration
	Logger  *log.Logger
}

// NewGenerator returns a Generator backed by rt.
func NewGenerator(rt ai.Runtime, opt Options) *Generator {
	logger := opt.Logger
	if logger == nil {
		logger = log.Default()
	}
	model := opt.Model
	if model == "" {
		model = ai.DefaultModel(ai.DefaultProvider)
	}
	return &Generator{
		runtime:     rt,
		model:       model,
		maxTokens:   opt.MaxTokens,
		temperature: opt.Temperature,
		timeout:     opt.Timeout,
		logger:      logger,
	}
}

// Generate never returns an error: every failure becomes a placeholder text
// with the status the HTTP endpoint should answer with. The credential is
// checked before the input.
func (g *Generator) Generate(ctx context.Context, req Request) Response {
	if g.runtime == nil {
		return Response{Insights: MissingKeyText, Status: http.StatusInternalServerError}
	}
	if err := ai.Validate(g.runtime); err != nil {
		if errors.Is(err, ai.ErrMissingAPIKey) {
			return Response{Insights: MissingKeyText, Status: http.StatusInternalServerError}
		}
		return Response{Insights: FailureText(err), Status: http.StatusInternalServerError}
	}
	if req.Stats == nil || req.Stats.Total == 0 {
		return Response{Insights: NoDataText, Status: http.StatusBadRequest}
	}

	prompt := FormatPrompt(req)
	reqID := uuid.NewString()
	logger := g.logger.With("request_id", reqID, "model", g.model)
	logger.Debug("generating insights", "respondents", req.Stats.Total, "prompt_tokens_est", utils.CountTokens(prompt))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	start := time.Now()
	resp, err := g.runtime.Generate(ctx, ai.GenerateRequest{
		Model:       g.model,
		Messages:    []ai.Message{{Role: "user", Content: prompt}},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		logger.Error("insight generation failed", "err", err)
		return Response{Insights: FailureText(err), Status: http.StatusInternalServerError}
	}
	logger.Info("insights generated", "elapsed", time.Since(start), "completion_tokens", resp.Usage.CompletionTokens, "provider_request_id", resp.RequestID)
	return Response{Insights: resp.Text(), Status: http.StatusOK}
}
