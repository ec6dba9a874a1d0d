package engine

import (
	"github.com/shaiso/Synthflow/internal/domain"
)

// Step — flow в плане вместе с материализованными passes.
type Step struct {
	Flow   *domain.FlowDefinition
	Passes []domain.PassRef
}

// Plan — порядок выполнения flows с вычисленными списками passes.
type Plan struct {
	// Target — flow, для которого строился план.
	Target domain.FlowID

	// Steps — flows в порядке выполнения.
	Steps []Step
}

// Plan разрешает зависимости и материализует passes каждого flow.
//
// Отложенный producer каждого flow вызывается ровно один раз на план,
// поэтому список passes отражает состояние каталога на момент вызова.
func (r *Resolver) Plan(id domain.FlowID) (*Plan, error) {
	order, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Target: id,
		Steps:  make([]Step, 0, len(order)),
	}
	for _, fid := range order {
		def, err := r.flows.Get(fid)
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, Step{
			Flow:   def,
			Passes: def.Passes.Resolve(),
		})
	}

	return plan, nil
}

// Order возвращает идентификаторы flows в порядке выполнения.
func (p *Plan) Order() []domain.FlowID {
	out := make([]domain.FlowID, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Flow.ID
	}
	return out
}

// Passes возвращает все passes плана в порядке выполнения.
func (p *Plan) Passes() []domain.PassRef {
	var out []domain.PassRef
	for _, s := range p.Steps {
		out = append(out, s.Passes...)
	}
	return out
}
