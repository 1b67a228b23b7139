package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"connector/integrations/pkg/notify"
	"connector/tools/httpclient"
	"connector/tools/logger"

	"github.com/google/uuid"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
)

// Checker 对后端发起一次 GET 并记录结果。每次 Check 都会真实发出请求，不缓存。
type Checker struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logger.Logger
	notifier   notify.Sender
	now        func() time.Time
}

type Option func(*Checker)

// WithTimeout 单次检查超时，<= 0 表示只受调用方 ctx 控制
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) { c.httpClient = client }
}

// WithNotifier 检查失败时发送告警
func WithNotifier(s notify.Sender) Option {
	return func(c *Checker) { c.notifier = s }
}

// NewChecker 创建检查器
func NewChecker(url string, log *logger.Logger, opts ...Option) *Checker {
	c := &Checker{
		url:        url,
		httpClient: httpclient.CreateClient(),
		logger:     log,
		notifier:   notify.NopSender{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL 检查目标
func (c *Checker) URL() string {
	return c.url
}

// Check 发出一次 GET 请求。失败不会 panic 也不返回 error，统一体现在 Result 中。
func (c *Checker) Check(ctx context.Context) Result {
	result := Result{
		ID:        uuid.NewString(),
		Method:    http.MethodGet,
		URL:       c.url,
		CheckedAt: c.now(),
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	body, status, err := httpclient.RequestC(reqCtx, c.httpClient, http.MethodGet, c.url, nil, map[string]string{
		"Accept": "application/json",
	})
	result.LatencyMs = time.Since(start).Milliseconds()
	result.HTTPStatus = status
	result.Body = string(body)

	var data interface{}
	if len(body) > 0 && json.Unmarshal(body, &data) == nil {
		result.Data = data
	}

	switch {
	case err != nil:
		result.Status = StatusFailed
		result.Err = err
	case !httpclient.IsSuccess(status):
		result.Status = StatusFailed
		result.Err = fmt.Errorf("unexpected status %d", status)
	default:
		result.Status = StatusOK
	}
	if result.Err != nil {
		result.Error = result.Err.Error()
	}

	observe(result)
	c.report(ctx, result)
	return result
}

// report 将结果写入诊断日志，失败时发送告警
func (c *Checker) report(ctx context.Context, r Result) {
	view := r
	view.Err = nil
	if r.OK() {
		c.logger.Info("Connection check %s succeeded: %s", r.ID, larkcore.Prettify(view))
		return
	}

	c.logger.Error("Connection check %s failed: %s", r.ID, larkcore.Prettify(view))

	text := fmt.Sprintf("[integrations] connection check failed: %s %s (%s)", r.Method, r.URL, r.Error)
	if err := c.notifier.Send(ctx, text); err != nil {
		c.logger.Warn("Failed to send connection alert: %v", err)
	}
}
