package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/flow"
)

func newTestRegistry() *flow.Registry {
	return flow.NewRegistry(nil)
}

func mustLookup(t *testing.T, reg *flow.Registry, id domain.FlowID) *domain.FlowDefinition {
	t.Helper()
	def, err := reg.Get(id)
	if err != nil {
		t.Fatalf("flow %s should be registered: %v", id, err)
	}
	return def
}

func positions(order []domain.FlowID) map[domain.FlowID]int {
	pos := make(map[domain.FlowID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	return pos
}

func TestResolve_SimpleChain(t *testing.T) {
	reg := newTestRegistry()
	a := reg.Register("t", "A", domain.StaticPasses("a"))
	b := reg.Register("t", "B", domain.StaticPasses("b"), a)
	c := reg.Register("t", "C", domain.StaticPasses("c"), b)

	order, err := NewResolver(reg, nil).Resolve(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.FlowID{a, b, c}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d]: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestResolve_Diamond(t *testing.T) {
	// A → B → D
	// A → C → D
	reg := newTestRegistry()
	a := reg.Register("t", "A", domain.StaticPasses())
	b := reg.Register("t", "B", domain.StaticPasses(), a)
	c := reg.Register("t", "C", domain.StaticPasses(), a)
	d := reg.Register("t", "D", domain.StaticPasses(), b, c)

	order, err := NewResolver(reg, nil).Resolve(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A встречается ровно один раз
	if len(order) != 4 {
		t.Fatalf("expected 4 flows, got %v", order)
	}

	// Порядок соседей стабилен: B раньше C, как в requires
	want := []domain.FlowID{a, b, c, d}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d]: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestResolve_EveryPrerequisiteFirst(t *testing.T) {
	reg := newTestRegistry()
	x := reg.Register("t", "X", domain.StaticPasses())
	y := reg.Register("t", "Y", domain.StaticPasses(), x)
	z := reg.Register("t", "Z", domain.StaticPasses(), x, y)
	w := reg.Register("t", "W", domain.StaticPasses(), y)
	top := reg.Register("t", "top", domain.StaticPasses(), z, w, x)

	order, err := NewResolver(reg, nil).Resolve(top)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := positions(order)
	if len(pos) != len(order) {
		t.Fatalf("duplicate flows in order %v", order)
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 flows, got %v", order)
	}

	for _, id := range order {
		def := mustLookup(t, reg, id)
		for _, dep := range def.Requires {
			if pos[dep] > pos[id] {
				t.Errorf("%s should come before %s", dep, id)
			}
		}
	}
	if order[len(order)-1] != top {
		t.Errorf("target should be last, got %s", order[len(order)-1])
	}
}

func TestResolve_NoRequires(t *testing.T) {
	reg := newTestRegistry()
	id := reg.Register("t", "only", domain.StaticPasses("p"), "", "")

	order, err := NewResolver(reg, nil).Resolve(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 1 || order[0] != id {
		t.Errorf("expected only %s, got %v", id, order)
	}
}

func TestResolve_CyclicDependency(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("t", "A", domain.StaticPasses(), "t:B")
	reg.Register("t", "B", domain.StaticPasses(), "t:A")

	_, err := NewResolver(reg, nil).Resolve("t:A")
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(ce.Path) != 3 || ce.Path[0] != "t:A" || ce.Path[1] != "t:B" || ce.Path[2] != "t:A" {
		t.Errorf("unexpected cycle path %v", ce.Path)
	}
}

func TestResolve_SelfDependency(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("t", "A", domain.StaticPasses(), "t:A")

	_, err := NewResolver(reg, nil).Resolve("t:A")
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestResolve_LongCycleBehindPrerequisite(t *testing.T) {
	// top → A → B → C → A
	reg := newTestRegistry()
	reg.Register("t", "A", domain.StaticPasses(), "t:B")
	reg.Register("t", "B", domain.StaticPasses(), "t:C")
	reg.Register("t", "C", domain.StaticPasses(), "t:A")
	top := reg.Register("t", "top", domain.StaticPasses(), "t:A")

	_, err := NewResolver(reg, nil).Resolve(top)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if ce.Path[0] != "t:A" || ce.Path[len(ce.Path)-1] != "t:A" {
		t.Errorf("cycle should start and end at t:A, got %v", ce.Path)
	}
}

func TestResolve_MissingDependency(t *testing.T) {
	reg := newTestRegistry()
	write := reg.Register("symbolicexpression", "write", domain.StaticPasses(), "vivado:ip")

	_, err := NewResolver(reg, nil).Resolve(write)
	if !errors.Is(err, flow.ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}

	var nf *flow.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *flow.NotFoundError, got %T", err)
	}
	if nf.ID != "vivado:ip" || nf.RequiredBy != write {
		t.Errorf("unexpected error context: %+v", nf)
	}
}

func TestResolve_MissingTarget(t *testing.T) {
	_, err := NewResolver(newTestRegistry(), nil).Resolve("t:nope")
	if !errors.Is(err, flow.ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}
}

func TestResolve_CacheInvalidatedOnRegister(t *testing.T) {
	reg := newTestRegistry()
	a := reg.Register("t", "A", domain.StaticPasses())
	top := reg.Register("t", "top", domain.StaticPasses(), a)

	r := NewResolver(reg, nil)
	order, err := r.Resolve(top)
	if err != nil || len(order) != 2 {
		t.Fatalf("unexpected result %v, %v", order, err)
	}

	// Изменение результата вызывающим не портит кэш
	order[0] = "garbage"
	again, _ := r.Resolve(top)
	if again[0] != a {
		t.Errorf("cached order was mutated: %v", again)
	}

	// Переопределяем top с новой зависимостью
	b := reg.Register("t", "B", domain.StaticPasses())
	reg.Register("t", "top", domain.StaticPasses(), a, b)

	order, err = r.Resolve(top)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 {
		t.Errorf("expected stale cache to be bypassed, got %v", order)
	}
}

func TestPlan_DeferredPassesInvokedOncePerPlan(t *testing.T) {
	reg := newTestRegistry()

	calls := 0
	live := []domain.PassRef{"t:one_template"}
	templates := reg.Register("t", "apply_templates", domain.DeferredPasses(func() []domain.PassRef {
		calls++
		return live
	}))
	types := reg.Register("t", "specific_types", domain.StaticPasses("t:transform_types"))
	ip := reg.Register("t", "ip", domain.StaticPasses(), types, templates)

	r := NewResolver(reg, nil)

	// Регистрация не вызывает producer
	if calls != 0 {
		t.Fatalf("producer should not run at registration, ran %d times", calls)
	}

	plan, err := r.Plan(ip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected producer to run once, ran %d times", calls)
	}

	passes := plan.Passes()
	want := []domain.PassRef{"t:transform_types", "t:one_template"}
	if len(passes) != len(want) {
		t.Fatalf("expected %v, got %v", want, passes)
	}
	for i := range want {
		if passes[i] != want[i] {
			t.Errorf("passes[%d]: expected %s, got %s", i, want[i], passes[i])
		}
	}

	// Каталог изменился — новый план видит актуальный список
	live = append(live, "t:two_template")
	plan, err = r.Plan(ip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected producer to run once per plan, ran %d times", calls)
	}
	if len(plan.Passes()) != 3 {
		t.Errorf("expected live passes, got %v", plan.Passes())
	}

	order := plan.Order()
	if order[len(order)-1] != ip {
		t.Errorf("target should be last, got %v", order)
	}
}
