package cmd

import (
	"context"
	"errors"
	"fmt"

	"connector/integrations/config"
	"connector/integrations/pkg/connection"
	"connector/integrations/pkg/notify"
	"connector/tools/httpclient"
	"connector/tools/logger"

	"github.com/spf13/cobra"
)

// ErrCheckFailed 连通性检查失败，进程以非 0 退出
var ErrCheckFailed = errors.New("connection check failed")

var checkURL string

var CheckCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"c"},
	Short:   "Run one connectivity check against the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		target := cfg.ConnectionCheckURL
		if checkURL != "" {
			target = checkURL
		}

		checker := connection.NewChecker(target, logger.NewLogger(cfg.LogLevel),
			connection.WithTimeout(cfg.ConnectionCheckTimeout),
			connection.WithHTTPClient(httpclient.NewClient(cfg.HTTPClientOptions())),
			connection.WithNotifier(notify.NewWebhookSender(cfg.FeishuWebhookURL, nil)),
		)
		return runCheck(cmd, checker)
	},
}

func init() {
	CheckCmd.Flags().StringVar(&checkURL, "url", "", "override CONNECTION_CHECK_URL")
}

func runCheck(cmd *cobra.Command, checker *connection.Checker) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checking %s\n", checker.URL())
	result := checker.Check(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", result.Method, result.URL, result.Status)
	if !result.OK() {
		return fmt.Errorf("%w: %s", ErrCheckFailed, result.Error)
	}
	return nil
}
