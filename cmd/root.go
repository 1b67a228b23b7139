package cmd

import (
	"fmt"
	"os"

	// 注册 ioc 服务与接口
	_ "connector/integrations/pkg/connection"
	_ "connector/integrations/pkg/connection/api"
	_ "connector/integrations/pkg/hubspot/api"
	_ "connector/integrations/pkg/item/api"
	_ "connector/integrations/pkg/item/impl"
	_ "connector/integrations/pkg/ui"

	"github.com/spf13/cobra"
)

// RootCmd 命令行入口
var RootCmd = &cobra.Command{
	Use:   "connector",
	Short: "Integrations backend with a connectivity check.",
	Long: `Integrations backend: serves the integration form, the HubSpot OAuth
endpoints and /testconnection, and checks backend connectivity.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(CheckCmd)
}

// Execute 执行根命令
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
