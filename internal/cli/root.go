// Package cli cropctl 命令行：离线分析、读数模拟、告警订阅
package cli

import (
	"github.com/spf13/cobra"

	"cropwatch/pkg/config"
)

type app struct {
	configPath string
}

// NewRootCmd 创建 cropctl 根命令
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cropctl",
		Short:         "CropWatch command line tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "./config/worker.yaml", "config file path")

	root.AddCommand(newAnalyzeCmd(a), newSimulateCmd(a), newWatchCmd(a))
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.configPath)
}
