package catalog

import (
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
)

func TestCatalog(t *testing.T) {
	c := New()

	// Пустой каталог
	if c.Count() != 0 {
		t.Errorf("expected empty catalog")
	}

	c.Register("Vivado", "vivado:a", "vivado:b_template")
	c.Register("vivado", "vivado:a", "vivado:c")

	got := c.PassesForBackend("vivado")
	want := []domain.PassRef{"vivado:a", "vivado:b_template", "vivado:c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d passes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pass %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Копия, а не внутренний срез
	got[0] = "mutated"
	if c.PassesForBackend("vivado")[0] != "vivado:a" {
		t.Error("PassesForBackend should return a copy")
	}

	c.Unregister("vivado", "vivado:a")
	if c.Count() != 2 {
		t.Errorf("expected 2 passes after unregister, got %d", c.Count())
	}

	if len(c.PassesForBackend("unknown")) != 0 {
		t.Error("unknown backend should have no passes")
	}
}

func TestTemplates(t *testing.T) {
	c := DefaultCatalog()

	templates := Templates(c, "symbolicexpression")
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d: %v", len(templates), templates)
	}
	for _, p := range templates {
		if !IsTemplate(p) {
			t.Errorf("%s is not a template", p)
		}
	}
}

func TestBackends(t *testing.T) {
	c := DefaultCatalog()

	backends := c.Backends()
	if len(backends) != 2 || backends[0] != "symbolicexpression" || backends[1] != "vivado" {
		t.Errorf("unexpected backends: %v", backends)
	}
}

func TestDefaultCatalog_RegistrationOrder(t *testing.T) {
	c := DefaultCatalog()

	got := c.PassesForBackend("vivado")
	if len(got) != len(vivadoPasses) {
		t.Fatalf("expected %d vivado passes, got %d", len(vivadoPasses), len(got))
	}
	for i, p := range vivadoPasses {
		if got[i] != p {
			t.Errorf("pass %d: expected %s, got %s", i, p, got[i])
		}
	}
	if got[0] != "vivado:transform_types" {
		t.Errorf("transform_types should be registered first, got %s", got[0])
	}
}
