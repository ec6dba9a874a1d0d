package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/repo"
)

// NewBuildCmd создаёт группу команд для сборок.
func NewBuildCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run, request and inspect synthesis builds",
	}

	cmd.AddCommand(
		newBuildRunCmd(appFn, outputFn),
		newBuildRequestCmd(appFn, outputFn),
		newBuildListCmd(appFn, outputFn),
	)
	return cmd
}

// buildFlags — общие флаги run и request.
type buildFlags struct {
	backend string
	stages  []string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", "symbolicexpression", "Backend name")
	cmd.Flags().StringSliceVar(&f.stages, "stages", []string{"csim", "synth"},
		"Stages to enable: reset,csim,synth,cosim,validation,export,vsynth")
}

func (f *buildFlags) request(dir string) (domain.BuildRequest, error) {
	stages, err := domain.StageFlagsFromNames(f.stages)
	if err != nil {
		return domain.BuildRequest{}, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return domain.BuildRequest{}, fmt.Errorf("resolve project dir: %w", err)
	}
	return domain.BuildRequest{ProjectDir: abs, Stages: stages}, nil
}

func newBuildRunCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "run PROJECT_DIR",
		Short: "Run synthesis locally and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			b, err := app.Backend(flags.backend)
			if err != nil {
				return err
			}

			rep, err := b.Build(cmd.Context(), req)
			if rep != nil {
				out.Print([]string{"KEY", "VALUE"}, reportRows(rep), rep)
			}
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// reportRows раскладывает отчёт в строки таблицы.
func reportRows(rep *domain.BuildReport) [][]string {
	rows := [][]string{{"project", rep.ProjectName}}
	if c := rep.CSynth; c != nil {
		rows = append(rows,
			[]string{"target_clock", c.TargetClockPeriod},
			[]string{"estimated_clock", c.EstimatedClockPeriod},
			[]string{"latency", c.BestLatency + "-" + c.WorstLatency},
			[]string{"interval", c.IntervalMin + "-" + c.IntervalMax},
		)
		for _, key := range []string{"BRAM_18K", "DSP48E", "FF", "LUT", "URAM"} {
			if v, ok := c.Resources[key]; ok {
				rows = append(rows, []string{key, v + "/" + c.AvailableResources[key]})
			}
		}
	}
	if s := rep.CoSim; s != nil {
		rows = append(rows, []string{"cosim", s.Status})
	}
	return rows
}

func newBuildRequestCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "request PROJECT_DIR",
		Short: "Queue a build for the worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			// неизвестный backend отклоняется до публикации
			b, err := app.Backend(flags.backend)
			if err != nil {
				return err
			}

			conn, err := mq.NewConnection(app.Config.RabbitMQURL, app.Logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := cmd.Context()
			if err := mq.SetupTopology(ctx, conn); err != nil {
				return err
			}
			err = mq.NewPublisher(conn, app.Logger).PublishBuildRequested(ctx, mq.BuildRequestedPayload{
				Backend: b.Name(),
				Request: req,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Build requested: %s (%s)", req.ProjectDir, req.Stages.Arg()))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newBuildListCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	var backendName, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List build history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := repo.NewPool(ctx, app.Config.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			filter := repo.NewBuildFilter(backendName, status, limit, 0)
			builds, err := repo.NewBuildRepo(pool).List(ctx, filter)
			if err != nil {
				return err
			}

			rows := make([][]string, len(builds))
			for i, b := range builds {
				rows[i] = []string{
					b.ID.String(),
					b.Backend,
					string(b.Status),
					b.ProjectDir,
					strconv.FormatFloat(b.Duration().Seconds(), 'f', 1, 64),
					b.CreatedAt.Format("2006-01-02 15:04:05"),
				}
			}

			out.Print([]string{"ID", "BACKEND", "STATUS", "PROJECT", "SECONDS", "CREATED"}, rows, builds)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "", "Filter by backend")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of builds")
	return cmd
}
