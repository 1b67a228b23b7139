package cmd

import (
	"bytes"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connector/integrations/pkg/connection"
	"connector/tools/logger"

	"github.com/spf13/cobra"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunCheckOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	cmd, out := newTestCmd()
	checker := connection.NewChecker(srv.URL+"/testconnection", logger.NewLoggerWithWriter("error", &bytes.Buffer{}))
	if err := runCheck(cmd, checker); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "checking "+srv.URL+"/testconnection\n") {
		t.Errorf("missing target line in %q", out.String())
	}
	if !strings.Contains(out.String(), "GET "+srv.URL+"/testconnection -> ok") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunCheckRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	cmd, out := newTestCmd()
	checker := connection.NewChecker("http://"+addr+"/testconnection", logger.NewLoggerWithWriter("error", &bytes.Buffer{}),
		connection.WithTimeout(2*time.Second))
	err = runCheck(cmd, checker)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	if !strings.Contains(out.String(), "-> failed") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "check"} {
		if c, _, err := RootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}
