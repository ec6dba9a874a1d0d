// Synthflow CLI — инструмент командной строки для просмотра flows,
// поиска toolchain и запуска сборок.
//
// Использование:
//
//	synthflow [--json] [--log-level LEVEL] <command> <subcommand> [flags]
//
// Команды:
//
//	flow       Просмотр и разрешение flows
//	toolchain  Поиск toolchain
//	build      Запуск, постановка в очередь и история сборок
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/cli"
	"github.com/shaiso/Synthflow/internal/config"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var jsonOutput bool
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "synthflow",
		Short:         "Synthflow CLI — HLS flow and build tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL)")

	appFn := sync.OnceValues(func() (*cli.App, error) {
		level := telemetry.LogLevel()
		if logLevel != "" {
			level = telemetry.ParseLevel(logLevel)
		}
		logger := telemetry.SetupLoggerTo(os.Stderr, "text", level)

		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return cli.NewApp(cfg, backend.Deps{Logger: logger})
	})
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewFlowCmd(appFn, outputFn),
		cli.NewToolchainCmd(appFn, outputFn),
		cli.NewBuildCmd(appFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
