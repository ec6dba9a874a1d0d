package flow

import (
	"errors"
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
)

func mustLookup(t *testing.T, r *Registry, id domain.FlowID) *domain.FlowDefinition {
	t.Helper()
	def, err := r.Get(id)
	if err != nil {
		t.Fatalf("flow %s should be registered: %v", id, err)
	}
	return def
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry(nil)

	id := r.Register("SymbolicExpression", "specific_types",
		domain.StaticPasses("vivado:transform_types"))

	if id != "symbolicexpression:specific_types" {
		t.Errorf("unexpected flow id %q", id)
	}

	def, err := r.Lookup("SymbolicExpression", "specific_types")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.ID != id {
		t.Errorf("expected %s, got %s", id, def.ID)
	}
	if def.Backend != "SymbolicExpression" || def.Name != "specific_types" {
		t.Errorf("unexpected definition %+v", def)
	}

	passes := def.Passes.Resolve()
	if len(passes) != 1 || passes[0] != "vivado:transform_types" {
		t.Errorf("unexpected passes %v", passes)
	}
}

func TestRegistry_LookupMissing(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Lookup("vivado", "ip")
	if !errors.Is(err, ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.ID != "vivado:ip" {
		t.Errorf("expected vivado:ip, got %s", nf.ID)
	}
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry(nil)

	other := r.Register("vivado", "other", domain.StaticPasses("x"))
	r.Register("vivado", "ip", domain.StaticPasses("first"))
	r.Register("vivado", "ip", domain.StaticPasses("second"), other)

	if r.Count() != 2 {
		t.Errorf("expected 2 flows, got %d", r.Count())
	}

	def, err := r.Lookup("vivado", "ip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	passes := def.Passes.Resolve()
	if len(passes) != 1 || passes[0] != "second" {
		t.Errorf("expected last registration to win, got %v", passes)
	}
	if len(def.Requires) != 1 || def.Requires[0] != other {
		t.Errorf("unexpected requires %v", def.Requires)
	}

	// Несвязанная запись не затронута
	od, err := r.Get(other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if od.Passes.Resolve()[0] != "x" {
		t.Error("unrelated flow was modified")
	}
}

func TestRegistry_RequiresFiltered(t *testing.T) {
	r := NewRegistry(nil)

	id := r.Register("vivado", "ip", domain.StaticPasses(), "", "vivado:a", "", "vivado:a", "vivado:b")
	def := mustLookup(t, r, id)

	want := []domain.FlowID{"vivado:a", "vivado:b"}
	if len(def.Requires) != len(want) {
		t.Fatalf("expected %v, got %v", want, def.Requires)
	}
	for i := range want {
		if def.Requires[i] != want[i] {
			t.Errorf("requires[%d]: expected %s, got %s", i, want[i], def.Requires[i])
		}
	}

	// Только пустые ссылки = нет зависимостей
	id = r.Register("vivado", "empty", domain.StaticPasses(), "", "")
	if len(mustLookup(t, r, id).Requires) != 0 {
		t.Error("requires with only absent entries should collapse to none")
	}

	// nil = нет зависимостей
	id = r.Register("vivado", "nil", domain.StaticPasses(), nil...)
	if len(mustLookup(t, r, id).Requires) != 0 {
		t.Error("nil requires should mean no prerequisites")
	}
}

func TestRegistry_FlowsAndBackends(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("vivado", "write", domain.StaticPasses())
	r.Register("vivado", "ip", domain.StaticPasses())
	r.Register("SymbolicExpression", "ip", domain.StaticPasses())

	flows := r.Flows("vivado")
	if len(flows) != 2 || flows[0].ID != "vivado:ip" || flows[1].ID != "vivado:write" {
		t.Errorf("unexpected vivado flows: %v", flows)
	}

	if len(r.Flows("")) != 3 {
		t.Errorf("expected 3 flows in total")
	}

	backends := r.Backends()
	if len(backends) != 2 || backends[0] != "symbolicexpression" || backends[1] != "vivado" {
		t.Errorf("unexpected backends %v", backends)
	}
}

func TestRegistry_Generation(t *testing.T) {
	r := NewRegistry(nil)
	g0 := r.Generation()

	r.Register("vivado", "ip", domain.StaticPasses())
	g1 := r.Generation()
	if g1 <= g0 {
		t.Error("generation should grow on register")
	}

	_, _ = r.Lookup("vivado", "ip")
	if r.Generation() != g1 {
		t.Error("lookup should not change generation")
	}
}
