package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client-side fallbacks used when the endpoint gives nothing usable.
const (
	EmptyResultText   = "인사이트 생성 실패"
	UnreachableText   = "API 연결 실패. 환경변수를 확인해주세요."
	defaultRemotePath = "/api/insights"
)

// RemoteClient asks a running dashboard server for insights, the way the
// browser front end does.
type RemoteClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

// NewRemoteClient targets endpoint. A bare base URL gets /api/insights appended.
func NewRemoteClient(endpoint string, timeout time.Duration, logger *log.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	if endpoint != "" && !strings.HasSuffix(endpoint, defaultRemotePath) {
		endpoint = strings.TrimRight(endpoint, "/") + defaultRemotePath
	}
	return &RemoteClient{endpoint: endpoint, httpClient: &http.Client{Timeout: timeout}, logger: logger}
}

// Fetch posts req and returns the insight text. Error statuses still carry a
// displayable text, so only an empty body or a transport failure falls back.
func (c *RemoteClient) Fetch(ctx context.Context, req Request) string {
	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Error("encode insight request", "err", err)
		return UnreachableText
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("build insight request", "err", err)
		return UnreachableText
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("insight endpoint unreachable", "endpoint", c.endpoint, "err", err)
		return UnreachableText
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Warn("insight response not JSON", "status", resp.StatusCode, "err", err)
		return UnreachableText
	}
	if out.Insights == "" {
		return EmptyResultText
	}
	return out.Insights
}
