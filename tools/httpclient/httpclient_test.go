package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRequestC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"method":"` + r.Method + `"}`))
	}))
	defer srv.Close()

	client := NewClient(Options{Timeout: time.Second, MaxIdleConns: 2, MaxIdleConnsPerHost: 1, IdleConnTimeout: time.Second})

	body, status, err := RequestC(context.Background(), client, http.MethodGet, srv.URL, nil, map[string]string{"Authorization": "Bearer t"})
	if err != nil {
		t.Fatalf("RequestC() error = %v", err)
	}
	if status != http.StatusOK || !strings.Contains(string(body), `"GET"`) {
		t.Errorf("unexpected response %d %s", status, body)
	}

	_, status, err = RequestC(context.Background(), nil, http.MethodGet, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("RequestC() error = %v", err)
	}
	if status != http.StatusUnauthorized || IsSuccess(status) {
		t.Errorf("expected 401, got %d", status)
	}
}

func TestRequestCConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, status, err := RequestC(context.Background(), CreateClient(), http.MethodGet, url, nil, nil)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
}

func TestIsSuccess(t *testing.T) {
	for status, want := range map[int]bool{199: false, 200: true, 204: true, 299: true, 301: false, 500: false} {
		if got := IsSuccess(status); got != want {
			t.Errorf("IsSuccess(%d) = %v, want %v", status, got, want)
		}
	}
}
