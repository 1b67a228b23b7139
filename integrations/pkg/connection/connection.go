package connection

import (
	"time"
)

const (
	AppName = "connection"
)

// Status 连通性检查结果
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// StatusResponse /testconnection 的响应体
type StatusResponse struct {
	Status string `json:"status"`
}

// Result 一次检查的结果。连接失败、超时与非 2xx 统一归为 StatusFailed，
// 具体原因仅保留在 Error 中用于诊断。
type Result struct {
	ID         string      `json:"id"`
	Method     string      `json:"method"`
	URL        string      `json:"url"`
	Status     Status      `json:"status"`
	HTTPStatus int         `json:"http_status,omitempty"`
	Body       string      `json:"body,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	LatencyMs  int64       `json:"latency_ms"`
	CheckedAt  time.Time   `json:"checked_at"`

	Err error `json:"-"`
}

// OK 检查是否成功
func (r Result) OK() bool {
	return r.Status == StatusOK
}
