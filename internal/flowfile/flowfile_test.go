package flowfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/flow"
)

const sample = `
flow "quantize" {
  backend  = "SymbolicExpression"
  passes   = ["symbolicexpression:quantize_consts", "symbolicexpression:fold_consts"]
  requires = ["specific_types", "vivado:ip"]
}

flow "report_only" {
  backend = "vivado"
}

schedule "nightly" {
  backend  = "symbolicexpression"
  project  = "/work/prj"
  cron     = "0 2 * * *"
  timezone = "Europe/Moscow"
  stages   = ["csim", "synth", "cosim"]
}

schedule "hourly" {
  backend = "vivado"
  project = "/work/other"
  cron    = "0 * * * *"
}
`

func TestParse_FlowsAndSchedules(t *testing.T) {
	f, err := Parse("sample.hcl", []byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Flows) != 2 {
		t.Fatalf("expected 2 flows, got %d", len(f.Flows))
	}

	q := f.Flows[0]
	if q.ID() != "symbolicexpression:quantize" {
		t.Errorf("unexpected id %s", q.ID())
	}
	if len(q.Passes) != 2 || q.Passes[1] != "symbolicexpression:fold_consts" {
		t.Errorf("unexpected passes %v", q.Passes)
	}
	if len(q.Requires) != 2 ||
		q.Requires[0] != "symbolicexpression:specific_types" ||
		q.Requires[1] != "vivado:ip" {
		t.Errorf("unexpected requires %v", q.Requires)
	}

	if len(f.Schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(f.Schedules))
	}
	nightly := f.Schedules[0]
	if nightly.CronExpr != "0 2 * * *" || nightly.Timezone != "Europe/Moscow" {
		t.Errorf("unexpected schedule %+v", nightly)
	}
	want := domain.StageFlags{CSim: true, Synth: true, CoSim: true}
	if nightly.Stages != want {
		t.Errorf("expected stages %+v, got %+v", want, nightly.Stages)
	}

	hourly := f.Schedules[1]
	if hourly.Stages != domain.DefaultStageFlags() {
		t.Errorf("expected default stages, got %+v", hourly.Stages)
	}
	if hourly.Timezone != "UTC" {
		t.Errorf("expected UTC, got %s", hourly.Timezone)
	}
}

func TestParse_UnknownStage(t *testing.T) {
	src := `
schedule "bad" {
  backend = "vivado"
  project = "/p"
  cron    = "* * * * *"
  stages  = ["csim", "place_and_route"]
}
`
	_, err := Parse("bad.hcl", []byte(src))
	if err == nil || !strings.Contains(err.Error(), "place_and_route") {
		t.Errorf("expected unknown stage error, got %v", err)
	}
}

func TestParse_InvalidCron(t *testing.T) {
	src := `
schedule "hourly" {
  backend = "vivado"
  project = "/p"
  cron    = "every hour"
}
`
	_, err := Parse("cron.hcl", []byte(src))
	if err == nil || !strings.Contains(err.Error(), "invalid cron expression") {
		t.Errorf("expected cron error at decode time, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `flow "x" {`},
		{"missing backend", `flow "x" { passes = [] }`},
		{"duplicate flow", `
flow "x" { backend = "vivado" }
flow "x" { backend = "vivado" }
`},
		{"duplicate schedule", `
schedule "s" { 
  backend = "vivado" 
  project = "/p"
  cron = "* * * * *" 
}
schedule "s" { 
  backend = "vivado" 
  project = "/p"
  cron = "* * * * *" 
}
`},
		{"unknown block", `pipeline "x" {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.name+".hcl", []byte(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFile_Register(t *testing.T) {
	f, err := Parse("sample.hcl", []byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg := flow.NewRegistry(nil)
	ids := f.Register(reg)

	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	def, err := reg.Get("symbolicexpression:quantize")
	if err != nil {
		t.Fatalf("flow should be registered: %v", err)
	}
	if len(def.Passes.Resolve()) != 2 {
		t.Errorf("unexpected passes %v", def.Passes.Resolve())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows.hcl")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Flows) != 2 || len(f.Schedules) != 2 {
		t.Errorf("unexpected file %+v", f)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}
