package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage — имя стадии синтеза.
type Stage string

// Стадии в фиксированном порядке передачи внешнему инструменту.
const (
	StageReset      Stage = "reset"
	StageCSim       Stage = "csim"
	StageSynth      Stage = "synth"
	StageCoSim      Stage = "cosim"
	StageValidation Stage = "validation"
	StageExport     Stage = "export"
	StageVSynth     Stage = "vsynth"
)

// AllStages — все стадии в порядке, который ожидает build_prj.tcl.
var AllStages = []Stage{
	StageReset,
	StageCSim,
	StageSynth,
	StageCoSim,
	StageValidation,
	StageExport,
	StageVSynth,
}

// StageFlags — семь независимых переключателей стадий.
type StageFlags struct {
	Reset      bool `json:"reset"`
	CSim       bool `json:"csim"`
	Synth      bool `json:"synth"`
	CoSim      bool `json:"cosim"`
	Validation bool `json:"validation"`
	Export     bool `json:"export"`
	VSynth     bool `json:"vsynth"`
}

// DefaultStageFlags возвращает стадии по умолчанию: csim и synth.
func DefaultStageFlags() StageFlags {
	return StageFlags{CSim: true, Synth: true}
}

// Get возвращает значение флага стадии.
func (f StageFlags) Get(stage Stage) bool {
	switch stage {
	case StageReset:
		return f.Reset
	case StageCSim:
		return f.CSim
	case StageSynth:
		return f.Synth
	case StageCoSim:
		return f.CoSim
	case StageValidation:
		return f.Validation
	case StageExport:
		return f.Export
	case StageVSynth:
		return f.VSynth
	default:
		return false
	}
}

// Set устанавливает флаг стадии. Неизвестная стадия — ошибка.
func (f *StageFlags) Set(stage Stage, v bool) error {
	switch stage {
	case StageReset:
		f.Reset = v
	case StageCSim:
		f.CSim = v
	case StageSynth:
		f.Synth = v
	case StageCoSim:
		f.CoSim = v
	case StageValidation:
		f.Validation = v
	case StageExport:
		f.Export = v
	case StageVSynth:
		f.VSynth = v
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return nil
}

// Arg рендерит флаги одной строкой для внешнего инструмента:
//
//	reset=false csim=true synth=true cosim=false validation=false export=false vsynth=false
func (f StageFlags) Arg() string {
	parts := make([]string, 0, len(AllStages))
	for _, stage := range AllStages {
		parts = append(parts, string(stage)+"="+strconv.FormatBool(f.Get(stage)))
	}
	return strings.Join(parts, " ")
}

// Enabled возвращает включённые стадии в фиксированном порядке.
func (f StageFlags) Enabled() []Stage {
	var out []Stage
	for _, stage := range AllStages {
		if f.Get(stage) {
			out = append(out, stage)
		}
	}
	return out
}

// StageFlagsFromNames включает только перечисленные стадии.
func StageFlagsFromNames(names []string) (StageFlags, error) {
	var f StageFlags
	for _, name := range names {
		if err := f.Set(Stage(strings.TrimSpace(name)), true); err != nil {
			return StageFlags{}, err
		}
	}
	return f, nil
}

// BuildRequest — параметры одного запуска внешнего синтеза.
type BuildRequest struct {
	// ProjectDir — каталог сгенерированного проекта.
	ProjectDir string `json:"project_dir"`

	// Stages — какие стадии выполнять.
	Stages StageFlags `json:"stages"`
}

// BuildStatus — статус записи о сборке.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
type BuildStatus string

const (
	BuildStatusPending   BuildStatus = "PENDING"
	BuildStatusRunning   BuildStatus = "RUNNING"
	BuildStatusSucceeded BuildStatus = "SUCCEEDED"
	BuildStatusFailed    BuildStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s BuildStatus) IsTerminal() bool {
	switch s {
	case BuildStatusSucceeded, BuildStatusFailed:
		return true
	default:
		return false
	}
}

// BuildRecord — запись истории сборок.
type BuildRecord struct {
	// ID — уникальный идентификатор сборки.
	ID uuid.UUID `json:"id"`

	// Backend — имя backend, выполнявшего сборку.
	Backend string `json:"backend"`

	// ProjectDir — каталог проекта.
	ProjectDir string `json:"project_dir"`

	// Stages — запрошенные стадии.
	Stages StageFlags `json:"stages"`

	// Status — текущий статус.
	Status BuildStatus `json:"status"`

	// Report — результат разбора отчётов (nil, пока сборка не завершена).
	Report *BuildReport `json:"report,omitempty"`

	// Error — текст ошибки для FAILED.
	Error string `json:"error,omitempty"`

	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewBuildRecord создаёт запись в статусе PENDING.
func NewBuildRecord(backend string, req BuildRequest) *BuildRecord {
	return &BuildRecord{
		ID:         uuid.New(),
		Backend:    backend,
		ProjectDir: req.ProjectDir,
		Stages:     req.Stages,
		Status:     BuildStatusPending,
		CreatedAt:  time.Now(),
	}
}

// Request восстанавливает BuildRequest из записи.
func (r *BuildRecord) Request() BuildRequest {
	return BuildRequest{ProjectDir: r.ProjectDir, Stages: r.Stages}
}

// Duration возвращает продолжительность сборки.
// Возвращает 0, если сборка ещё не завершена.
func (r *BuildRecord) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// MarkRunning переводит запись в RUNNING.
func (r *BuildRecord) MarkRunning() {
	now := time.Now()
	r.Status = BuildStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит запись в SUCCEEDED с отчётом.
func (r *BuildRecord) MarkSucceeded(report *BuildReport) {
	now := time.Now()
	r.Status = BuildStatusSucceeded
	r.Report = report
	r.FinishedAt = &now
}

// MarkFailed переводит запись в FAILED с ошибкой.
func (r *BuildRecord) MarkFailed(err string) {
	now := time.Now()
	r.Status = BuildStatusFailed
	r.Error = err
	r.FinishedAt = &now
}
