package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"connector/integrations/config"
	"connector/tools/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type recordedRequest struct {
	method string
	path   string
}

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		out = append(out, m)
	}
	return out
}

type fakeSender struct {
	calls int32
	last  string
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	atomic.AddInt32(&f.calls, 1)
	f.last = text
	return nil
}

func TestDefaultURL(t *testing.T) {
	if config.DefaultConnectionCheckURL != "http://localhost:8000/testconnection" {
		t.Fatalf("default check URL changed: %s", config.DefaultConnectionCheckURL)
	}
}

func TestCheckIssuesSingleGet(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"status":"ok"}`)
	c := NewChecker(srv.URL+"/testconnection", logger.NewLoggerWithWriter("info", &bytes.Buffer{}))

	r := c.Check(context.Background())

	if len(*reqs) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(*reqs))
	}
	if got := (*reqs)[0]; got.method != http.MethodGet || got.path != "/testconnection" {
		t.Errorf("unexpected request %+v", got)
	}
	if !r.OK() || r.HTTPStatus != http.StatusOK {
		t.Errorf("expected ok result, got %+v", r)
	}
	if r.Method != http.MethodGet || r.URL != srv.URL+"/testconnection" || r.ID == "" {
		t.Errorf("result metadata not filled: %+v", r)
	}
	data, ok := r.Data.(map[string]interface{})
	if !ok || data["status"] != "ok" {
		t.Errorf("decoded data = %#v", r.Data)
	}
}

func TestCheckLogsResponse(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"status":"ok"}`)
	var buf bytes.Buffer
	c := NewChecker(srv.URL+"/testconnection", logger.NewLoggerWithWriter("info", &buf))

	r := c.Check(context.Background())

	lines := logLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one diagnostic line, got %d: %s", len(lines), buf.String())
	}
	msg, _ := lines[0]["message"].(string)
	if lines[0]["level"] != "info" {
		t.Errorf("level = %v, want info", lines[0]["level"])
	}
	for _, want := range []string{r.ID, "status", "ok", "200"} {
		if !strings.Contains(msg, want) {
			t.Errorf("log message missing %q: %s", want, msg)
		}
	}
}

func TestCheckConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/testconnection"
	srv.Close()

	var buf bytes.Buffer
	alerts := &fakeSender{}
	c := NewChecker(url, logger.NewLoggerWithWriter("info", &buf), WithNotifier(alerts))

	r := c.Check(context.Background())

	if r.OK() || r.Status != StatusFailed {
		t.Fatalf("expected failed result, got %+v", r)
	}
	if r.Err == nil || r.Error == "" || r.HTTPStatus != 0 {
		t.Errorf("failure cause not recorded: %+v", r)
	}
	lines := logLines(t, &buf)
	if len(lines) == 0 || lines[0]["level"] != "error" {
		t.Errorf("expected error-level diagnostic, got %s", buf.String())
	}
	if atomic.LoadInt32(&alerts.calls) != 1 || !strings.Contains(alerts.last, url) {
		t.Errorf("expected one alert mentioning %s, got %d %q", url, alerts.calls, alerts.last)
	}
}

func TestCheckNonSuccessStatusFails(t *testing.T) {
	srv, _ := newBackend(t, http.StatusServiceUnavailable, `{"status":"down"}`)
	c := NewChecker(srv.URL, logger.NewLoggerWithWriter("info", &bytes.Buffer{}))

	r := c.Check(context.Background())
	if r.Status != StatusFailed || r.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected failed 503 result, got %+v", r)
	}
	if r.Body != `{"status":"down"}` {
		t.Errorf("body = %q", r.Body)
	}
}

func TestCheckTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewChecker(srv.URL, logger.NewLoggerWithWriter("info", &bytes.Buffer{}), WithTimeout(50*time.Millisecond))
	start := time.Now()
	r := c.Check(context.Background())
	if r.OK() {
		t.Fatalf("expected timeout failure")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("check did not honour timeout")
	}
}

func TestCheckCancelledContext(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"status":"ok"}`)
	c := NewChecker(srv.URL, logger.NewLoggerWithWriter("info", &bytes.Buffer{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r := c.Check(ctx); r.OK() {
		t.Errorf("cancelled check should fail, got %+v", r)
	}
	if len(*reqs) != 0 {
		t.Errorf("cancelled check should not reach the backend")
	}
}

func TestCheckIsNotMemoized(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"status":"ok"}`)
	c := NewChecker(srv.URL, logger.NewLoggerWithWriter("info", &bytes.Buffer{}))

	first := c.Check(context.Background())
	second := c.Check(context.Background())

	if len(*reqs) != 2 {
		t.Fatalf("expected two requests, got %d", len(*reqs))
	}
	if first.ID == second.ID {
		t.Errorf("each check should get its own id")
	}
}

func TestCheckMetrics(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"status":"ok"}`)
	c := NewChecker(srv.URL, logger.NewLoggerWithWriter("info", &bytes.Buffer{}))

	before := testutil.ToFloat64(checksTotal.WithLabelValues(string(StatusOK)))
	c.Check(context.Background())
	after := testutil.ToFloat64(checksTotal.WithLabelValues(string(StatusOK)))
	if after-before != 1 {
		t.Errorf("ok counter delta = %v, want 1", after-before)
	}
}
