package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/engine"
)

// Flow DTOs

// FlowResponse — ответ с flow.
type FlowResponse struct {
	ID       domain.FlowID    `json:"id"`
	Backend  string           `json:"backend"`
	Name     string           `json:"name"`
	Deferred bool             `json:"deferred"`
	Passes   []domain.PassRef `json:"passes"`
	Requires []domain.FlowID  `json:"requires"`
}

// FlowFromDomain конвертирует domain.FlowDefinition в FlowResponse.
// Отложенный список passes вычисляется в момент запроса.
func FlowFromDomain(f *domain.FlowDefinition) FlowResponse {
	passes := f.Passes.Resolve()
	if passes == nil {
		passes = []domain.PassRef{}
	}
	requires := f.Requires
	if requires == nil {
		requires = []domain.FlowID{}
	}
	return FlowResponse{
		ID:       f.ID,
		Backend:  f.Backend,
		Name:     f.Name,
		Deferred: f.Passes.IsDeferred(),
		Passes:   passes,
		Requires: requires,
	}
}

// PlanStepResponse — flow в плане выполнения.
type PlanStepResponse struct {
	Flow   domain.FlowID    `json:"flow"`
	Passes []domain.PassRef `json:"passes"`
}

// PlanResponse — план выполнения flow.
type PlanResponse struct {
	Target domain.FlowID      `json:"target"`
	Steps  []PlanStepResponse `json:"steps"`
}

// PlanFromEngine конвертирует engine.Plan в PlanResponse.
func PlanFromEngine(p *engine.Plan) PlanResponse {
	steps := make([]PlanStepResponse, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = PlanStepResponse{Flow: s.Flow.ID, Passes: s.Passes}
	}
	return PlanResponse{Target: p.Target, Steps: steps}
}

// Build DTOs

// CreateBuildRequest — запрос на постановку сборки в очередь.
type CreateBuildRequest struct {
	Backend    string   `json:"backend"`
	ProjectDir string   `json:"project_dir"`
	Stages     []string `json:"stages,omitempty"`
}

// BuildAcceptedResponse — ответ на принятый запрос сборки.
type BuildAcceptedResponse struct {
	Backend    string            `json:"backend"`
	ProjectDir string            `json:"project_dir"`
	Stages     domain.StageFlags `json:"stages"`
}

// BuildResponse — ответ с записью о сборке.
type BuildResponse struct {
	ID         uuid.UUID           `json:"id"`
	Backend    string              `json:"backend"`
	ProjectDir string              `json:"project_dir"`
	Stages     domain.StageFlags   `json:"stages"`
	Status     domain.BuildStatus  `json:"status"`
	Report     *domain.BuildReport `json:"report,omitempty"`
	Error      string              `json:"error,omitempty"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// BuildFromDomain конвертирует domain.BuildRecord в BuildResponse.
func BuildFromDomain(b domain.BuildRecord) BuildResponse {
	return BuildResponse{
		ID:         b.ID,
		Backend:    b.Backend,
		ProjectDir: b.ProjectDir,
		Stages:     b.Stages,
		Status:     b.Status,
		Report:     b.Report,
		Error:      b.Error,
		StartedAt:  b.StartedAt,
		FinishedAt: b.FinishedAt,
		CreatedAt:  b.CreatedAt,
	}
}
