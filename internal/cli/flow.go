package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Synthflow/internal/domain"
)

// AppFunc лениво собирает App после разбора флагов.
type AppFunc func() (*App, error)

// NewFlowCmd создаёт группу команд для просмотра flows.
func NewFlowCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Inspect registered flows",
	}

	cmd.AddCommand(
		newFlowListCmd(appFn, outputFn),
		newFlowShowCmd(appFn, outputFn),
		newFlowResolveCmd(appFn, outputFn),
	)

	return cmd
}

// flowView — flow в выводе CLI.
type flowView struct {
	ID       domain.FlowID    `json:"id"`
	Backend  string           `json:"backend"`
	Name     string           `json:"name"`
	Deferred bool             `json:"deferred"`
	Passes   []domain.PassRef `json:"passes"`
	Requires []domain.FlowID  `json:"requires"`
}

func newFlowView(def *domain.FlowDefinition) flowView {
	return flowView{
		ID:       def.ID,
		Backend:  def.Backend,
		Name:     def.Name,
		Deferred: def.Passes.IsDeferred(),
		Passes:   def.Passes.Resolve(),
		Requires: def.Requires,
	}
}

func joinIDs(ids []domain.FlowID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func newFlowListCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	var backendName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			defs := app.Registry.Flows(backendName)

			views := make([]flowView, len(defs))
			rows := make([][]string, len(defs))
			for i, def := range defs {
				views[i] = newFlowView(def)
				passes := strconv.Itoa(len(views[i].Passes))
				if views[i].Deferred {
					passes += " (deferred)"
				}
				rows[i] = []string{def.ID.String(), passes, joinIDs(def.Requires)}
			}

			out.Print([]string{"ID", "PASSES", "REQUIRES"}, rows, views)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "", "Only flows of this backend")
	return cmd
}

func newFlowShowCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show BACKEND:NAME",
		Short: "Show flow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			def, err := app.Registry.Get(domain.FlowID(args[0]))
			if err != nil {
				return err
			}

			view := newFlowView(def)
			rows := make([][]string, 0, len(view.Passes)+len(view.Requires))
			for _, r := range view.Requires {
				rows = append(rows, []string{"requires", r.String()})
			}
			for _, p := range view.Passes {
				rows = append(rows, []string{"pass", p.String()})
			}

			out.Print([]string{"KIND", "VALUE"}, rows, view)
			return nil
		},
	}
}

func newFlowResolveCmd(appFn AppFunc, outputFn func() *Output) *cobra.Command {
	var withPasses bool

	cmd := &cobra.Command{
		Use:   "resolve BACKEND:NAME",
		Short: "Print the execution order of a flow and its prerequisites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFn()
			if err != nil {
				return err
			}
			out := outputFn()

			id := domain.FlowID(args[0])
			if !withPasses {
				order, err := app.Resolver.Resolve(id)
				if err != nil {
					return err
				}
				items := make([]string, len(order))
				for i, o := range order {
					items[i] = o.String()
				}
				out.List(items)
				return nil
			}

			plan, err := app.Resolver.Plan(id)
			if err != nil {
				return err
			}
			type stepView struct {
				Flow   domain.FlowID    `json:"flow"`
				Passes []domain.PassRef `json:"passes"`
			}
			var rows [][]string
			views := make([]stepView, 0, len(plan.Steps))
			for _, step := range plan.Steps {
				views = append(views, stepView{Flow: step.Flow.ID, Passes: step.Passes})
				for _, p := range step.Passes {
					rows = append(rows, []string{step.Flow.ID.String(), p.String()})
				}
			}
			out.Print([]string{"FLOW", "PASS"}, rows, views)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPasses, "passes", false, "Expand each flow into its passes")
	return cmd
}
