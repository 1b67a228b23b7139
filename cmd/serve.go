package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"connector/integrations/config"
	"connector/integrations/pkg/connection"
	"connector/tools/ioc"
	"connector/tools/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var skipStartupCheck bool

var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	ServeCmd.Flags().BoolVar(&skipStartupCheck, "skip-check", false, "do not run the connectivity check after start-up")
}

// startupCheck 返回启动后要执行的检查，skip 时返回 nil
func startupCheck(skip bool, checker *connection.Checker) func(context.Context) {
	if skip || checker == nil {
		return nil
	}
	return func(ctx context.Context) { checker.Check(ctx) }
}

func serve(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer cfg.Close()

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting integrations service...")

	if err := ioc.ConController.Init(); err != nil {
		return err
	}
	if err := ioc.Api.Init(); err != nil {
		return err
	}
	log.Info("Registered services: %v, apis: %v", ioc.ConController.Names(), ioc.Api.Names())

	cfg.Application.GinServer().GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      cfg.Application.GinServer(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// 先监听端口，默认的检查目标就是本服务的 /testconnection
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr, err)
	}
	log.Info("Server starting on port %s...", cfg.Port)

	var checker *connection.Checker
	if svc := connection.FromContainer(); svc != nil {
		checker = svc.Checker
	}
	return runServer(ctx, server, ln, startupCheck(skipStartupCheck, checker), cfg.ShutdownTimeout, log)
}

// runServer 在 ln 上提供服务，随后执行一次启动检查（不阻塞请求处理）。
// ctx 结束时取消检查并优雅关闭，返回前等待检查退出。
func runServer(ctx context.Context, server *http.Server, ln net.Listener, check func(context.Context), shutdownTimeout time.Duration, log *logger.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	checkCtx, cancelCheck := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancelCheck()
	if check != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check(checkCtx)
		}()
	}

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	cancelCheck()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}
