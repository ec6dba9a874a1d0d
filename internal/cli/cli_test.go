package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/config"
	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/flow"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	app, err := NewApp(cfg, backend.Deps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

// runCmd выполняет команду и возвращает stdout.
func runCmd(t *testing.T, app *App, jsonMode bool, newCmd func(AppFunc, func() *Output) *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	appFn := func() (*App, error) { return app, nil }
	outputFn := func() *Output { return NewOutputTo(&stdout, &stderr, jsonMode) }

	cmd := newCmd(appFn, outputFn)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return stdout.String(), err
}

func TestFlowList(t *testing.T) {
	app := newTestApp(t, nil)

	out, err := runCmd(t, app, false, NewFlowCmd, "list", "--backend", "symbolicexpression")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"symbolicexpression:write", "symbolicexpression:apply_templates", "(deferred)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "vivado:write") {
		t.Errorf("backend filter should hide vivado flows:\n%s", out)
	}
}

func TestFlowShow_JSON(t *testing.T) {
	app := newTestApp(t, nil)

	out, err := runCmd(t, app, true, NewFlowCmd, "show", "symbolicexpression:write")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var view flowView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if view.ID != "symbolicexpression:write" {
		t.Errorf("unexpected id %s", view.ID)
	}
	if len(view.Requires) != 1 || view.Requires[0] != "vivado:ip" {
		t.Errorf("expected requires [vivado:ip], got %v", view.Requires)
	}
}

func TestFlowResolve(t *testing.T) {
	app := newTestApp(t, nil)

	out, err := runCmd(t, app, true, NewFlowCmd, "resolve", "symbolicexpression:write")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	if err := json.Unmarshal([]byte(out), &order); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(order) == 0 || order[len(order)-1] != "symbolicexpression:write" {
		t.Fatalf("target should be last, got %v", order)
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if pos["vivado:ip"] > pos["symbolicexpression:write"] {
		t.Errorf("vivado:ip must precede the writer flow: %v", order)
	}
}

func TestFlowResolve_Passes(t *testing.T) {
	app := newTestApp(t, nil)

	out, err := runCmd(t, app, false, NewFlowCmd, "resolve", "--passes", "symbolicexpression:write")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "symbolicexpression:write_hls") {
		t.Errorf("expected writer pass in output:\n%s", out)
	}
}

func TestFlowResolve_UnknownFlow(t *testing.T) {
	app := newTestApp(t, nil)

	_, err := runCmd(t, app, false, NewFlowCmd, "resolve", "symbolicexpression:missing")
	var nf *flow.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected *flow.NotFoundError, got %v", err)
	}
}

func TestFlowList_FromFlowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows.hcl")
	src := `
flow "report" {
  backend  = "symbolicexpression"
  passes   = ["symbolicexpression:collect_report"]
  requires = ["write"]
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, &config.Config{FlowFile: path})

	out, err := runCmd(t, app, true, NewFlowCmd, "resolve", "symbolicexpression:report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "symbolicexpression:write") {
		t.Errorf("flow from file should depend on the writer flow:\n%s", out)
	}
}

func TestToolchainLocate_ExplicitPaths(t *testing.T) {
	app := newTestApp(t, nil)

	out, err := runCmd(t, app, true, NewToolchainCmd, "locate",
		"--include", "/opt/hls/include",
		"--libs", "/opt/hls/lnx64",
		"--clock-period", "3.3",
		"--io-type", "io_stream",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cfg domain.ToolchainConfig
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if cfg.IncludePath != "/opt/hls/include" || cfg.LibsPath != "/opt/hls/lnx64" {
		t.Errorf("explicit paths should be kept, got %+v", cfg)
	}
	if cfg.ClockPeriod != 3.3 || cfg.IOType != domain.IOStream {
		t.Errorf("flags should override defaults, got %+v", cfg)
	}
}

func TestToolchainLocate_PartialPaths(t *testing.T) {
	app := newTestApp(t, nil)

	_, err := runCmd(t, app, false, NewToolchainCmd, "locate", "--include", "/opt/hls/include")
	if err == nil || !strings.Contains(err.Error(), "together") {
		t.Errorf("expected partial paths error, got %v", err)
	}
}

func TestBuildRun_InvalidStage(t *testing.T) {
	app := newTestApp(t, nil)

	_, err := runCmd(t, app, false, NewBuildCmd, "run", t.TempDir(), "--stages", "csim,route")
	if err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestBuildRun_UnknownBackend(t *testing.T) {
	app := newTestApp(t, nil)

	_, err := runCmd(t, app, false, NewBuildCmd, "run", t.TempDir(), "--backend", "quartus")
	if !errors.Is(err, backend.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestReportRows(t *testing.T) {
	rows := reportRows(&domain.BuildReport{
		ProjectName: "myproject",
		CSynth: &domain.CSynthReport{
			BestLatency:        "9",
			WorstLatency:       "11",
			Resources:          map[string]string{"LUT": "4410"},
			AvailableResources: map[string]string{"LUT": "1182240"},
		},
		CoSim: &domain.CoSimReport{Status: "Pass"},
	})

	got := make(map[string]string, len(rows))
	for _, r := range rows {
		got[r[0]] = r[1]
	}
	if got["latency"] != "9-11" {
		t.Errorf("unexpected latency row %q", got["latency"])
	}
	if got["LUT"] != "4410/1182240" {
		t.Errorf("unexpected LUT row %q", got["LUT"])
	}
	if got["cosim"] != "Pass" {
		t.Errorf("unexpected cosim row %q", got["cosim"])
	}
}
