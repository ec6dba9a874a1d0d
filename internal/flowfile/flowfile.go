// Package flowfile читает HCL-файлы с дополнительными flows и
// расписаниями сборок.
//
//	flow "quantize" {
//	  backend  = "symbolicexpression"
//	  passes   = ["symbolicexpression:quantize_consts"]
//	  requires = ["specific_types"]
//	}
//
//	schedule "nightly" {
//	  backend = "symbolicexpression"
//	  project = "/work/prj"
//	  cron    = "0 2 * * *"
//	  stages  = ["csim", "synth"]
//	}
//
// Ссылка в requires без двоеточия относится к backend самого flow.
package flowfile

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/flow"
	"github.com/shaiso/Synthflow/internal/scheduler"
)

// File — содержимое одного flow-файла.
type File struct {
	Flows     []Flow
	Schedules []domain.Schedule
}

// Flow — объявление flow из файла.
type Flow struct {
	Backend  string
	Name     string
	Passes   []domain.PassRef
	Requires []domain.FlowID
}

// ID возвращает идентификатор flow.
func (f Flow) ID() domain.FlowID {
	return domain.NewFlowID(f.Backend, f.Name)
}

type hclFile struct {
	Flows     []*hclFlow     `hcl:"flow,block"`
	Schedules []*hclSchedule `hcl:"schedule,block"`
}

type hclFlow struct {
	Name     string   `hcl:"name,label"`
	Backend  string   `hcl:"backend"`
	Passes   []string `hcl:"passes,optional"`
	Requires []string `hcl:"requires,optional"`
}

type hclSchedule struct {
	Name     string   `hcl:"name,label"`
	Backend  string   `hcl:"backend"`
	Project  string   `hcl:"project"`
	Cron     string   `hcl:"cron"`
	Timezone string   `hcl:"timezone,optional"`
	Stages   []string `hcl:"stages,optional"`
}

// Load читает и разбирает flow-файл с диска.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse flow file %s: %w", path, diags)
	}
	return decode(path, f.Body)
}

// Parse разбирает flow-файл из памяти.
func Parse(filename string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse flow file %s: %w", filename, diags)
	}
	return decode(filename, f.Body)
}

func decode(filename string, body hcl.Body) (*File, error) {
	var raw hclFile
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode flow file %s: %w", filename, diags)
	}

	out := &File{}
	seen := make(map[domain.FlowID]bool)
	for _, rf := range raw.Flows {
		fl, err := convertFlow(rf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		if seen[fl.ID()] {
			return nil, fmt.Errorf("%s: flow %s declared twice", filename, fl.ID())
		}
		seen[fl.ID()] = true
		out.Flows = append(out.Flows, fl)
	}

	names := make(map[string]bool)
	for _, rs := range raw.Schedules {
		sched, err := convertSchedule(rs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		if names[sched.Name] {
			return nil, fmt.Errorf("%s: schedule %q declared twice", filename, sched.Name)
		}
		names[sched.Name] = true
		out.Schedules = append(out.Schedules, sched)
	}

	return out, nil
}

func convertFlow(rf *hclFlow) (Flow, error) {
	backend := strings.TrimSpace(rf.Backend)
	if backend == "" {
		return Flow{}, fmt.Errorf("flow %q: backend is required", rf.Name)
	}

	fl := Flow{
		Backend: strings.ToLower(backend),
		Name:    rf.Name,
	}
	for _, p := range rf.Passes {
		fl.Passes = append(fl.Passes, domain.PassRef(p))
	}
	for _, r := range rf.Requires {
		fl.Requires = append(fl.Requires, qualify(fl.Backend, r))
	}
	return fl, nil
}

func convertSchedule(rs *hclSchedule) (domain.Schedule, error) {
	if strings.TrimSpace(rs.Backend) == "" {
		return domain.Schedule{}, fmt.Errorf("schedule %q: backend is required", rs.Name)
	}
	if strings.TrimSpace(rs.Project) == "" {
		return domain.Schedule{}, fmt.Errorf("schedule %q: project is required", rs.Name)
	}
	if err := scheduler.ValidateCronExpr(rs.Cron); err != nil {
		return domain.Schedule{}, fmt.Errorf("schedule %q: %w", rs.Name, err)
	}

	stages := domain.DefaultStageFlags()
	if len(rs.Stages) > 0 {
		var err error
		stages, err = domain.StageFlagsFromNames(rs.Stages)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("schedule %q: %w", rs.Name, err)
		}
	}

	tz := rs.Timezone
	if tz == "" {
		tz = "UTC"
	}

	return domain.Schedule{
		Name:       rs.Name,
		Backend:    strings.ToLower(rs.Backend),
		ProjectDir: rs.Project,
		CronExpr:   rs.Cron,
		Timezone:   tz,
		Stages:     stages,
	}, nil
}

// qualify дополняет короткую ссылку именем backend.
func qualify(backend, ref string) domain.FlowID {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.Contains(ref, ":") {
		b, name, _ := strings.Cut(ref, ":")
		return domain.NewFlowID(b, name)
	}
	return domain.NewFlowID(backend, ref)
}

// Register регистрирует flows файла в реестре и возвращает их ID.
func (f *File) Register(reg *flow.Registry) []domain.FlowID {
	ids := make([]domain.FlowID, 0, len(f.Flows))
	for _, fl := range f.Flows {
		ids = append(ids, reg.Register(fl.Backend, fl.Name, domain.StaticPasses(fl.Passes...), fl.Requires...))
	}
	return ids
}
