package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Synthflow/internal/domain"
)

// NewToolchainCmd создаёт группу команд для toolchain.
func NewToolchainCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolchain",
		Short: "Locate and validate the HLS toolchain",
	}
	cmd.AddCommand(newToolchainLocateCmd(appFn, outputFn))
	return cmd
}

func newToolchainLocateCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	var (
		backendName string
		part        string
		clock       float64
		ioType      string
		compiler    string
		includePath string
		libsPath    string
	)

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve the toolchain configuration",
		Long: `Resolve the toolchain configuration.

Flags override SYNTHFLOW_* environment variables. When both --include and
--libs are given they are used as is; otherwise the compiler is looked up on
PATH and the include/lnx64 directories next to it are validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			opts := app.Config.Toolchain
			flags := cmd.Flags()
			if flags.Changed("part") {
				opts.Part = part
			}
			if flags.Changed("clock-period") {
				opts.ClockPeriod = clock
			}
			if flags.Changed("io-type") {
				opts.IOType = domain.IOType(ioType)
			}
			if flags.Changed("compiler") {
				opts.Compiler = compiler
			}
			if flags.Changed("include") {
				opts.IncludePath = includePath
			}
			if flags.Changed("libs") {
				opts.LibsPath = libsPath
			}

			b, err := app.Backend(backendName)
			if err != nil {
				return err
			}
			cfg, err := b.CreateInitialConfig(opts)
			if err != nil {
				return err
			}

			out.Print([]string{"KEY", "VALUE"}, [][]string{
				{"part", cfg.Part},
				{"clock_period", strconv.FormatFloat(cfg.ClockPeriod, 'g', -1, 64)},
				{"io_type", string(cfg.IOType)},
				{"compiler", cfg.Compiler},
				{"include_path", cfg.IncludePath},
				{"libs_path", cfg.LibsPath},
			}, cfg)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&backendName, "backend", "symbolicexpression", "Backend name")
	f.StringVar(&part, "part", "", "Target device (default xcvu9p-flga2577-2-e)")
	f.Float64Var(&clock, "clock-period", 0, "Clock period in ns (default 5)")
	f.StringVar(&ioType, "io-type", "", fmt.Sprintf("IO type: %s or %s", domain.IOParallel, domain.IOStream))
	f.StringVar(&compiler, "compiler", "", "Compiler executable (default vivado_hls)")
	f.StringVar(&includePath, "include", "", "Explicit HLS include directory")
	f.StringVar(&libsPath, "libs", "", "Explicit HLS lnx64 directory")

	return cmd
}
