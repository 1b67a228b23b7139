package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"connector/integrations/pkg/connection"
	"connector/tools/logger"

	"github.com/gin-gonic/gin"
)

func newRouter(h *ConnectionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterPublic(r)
	h.Register(r.Group("app").Group("api").Group("v1"))
	return r
}

func TestTestConnection(t *testing.T) {
	r := newRouter(NewConnectionHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/testconnection", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestPingAndHealth(t *testing.T) {
	r := newRouter(NewConnectionHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"Ping":"Pong"}` {
		t.Errorf("ping = %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
}

// 检查器指向同一个路由器暴露的 /testconnection
func TestCheckAgainstOwnEndpoint(t *testing.T) {
	h := NewConnectionHandler(nil)
	srv := httptest.NewServer(newRouter(h))
	defer srv.Close()
	h.checker = connection.NewChecker(srv.URL+"/testconnection", logger.NewLoggerWithWriter("info", &bytes.Buffer{}))

	resp, err := http.Get(srv.URL + "/app/api/v1/connection/check")
	if err != nil {
		t.Fatalf("GET check: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var result connection.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status != connection.StatusOK || result.HTTPStatus != http.StatusOK {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestCheckReportsFailure(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	h := NewConnectionHandler(connection.NewChecker(down.URL+"/testconnection", logger.NewLoggerWithWriter("info", &bytes.Buffer{})))
	r := newRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/api/v1/connection/check", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var result connection.Result
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	if result.Status != connection.StatusFailed || result.Error == "" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestCheckWithoutChecker(t *testing.T) {
	r := newRouter(NewConnectionHandler(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/api/v1/connection/check", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
