// Package catalog хранит зарегистрированные passes по backend'ам.
//
// Для ядра каталог — внешний коллаборатор: backend'ы запрашивают у него
// список passes через интерфейс PassCatalog при регистрации flows.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/shaiso/Synthflow/internal/domain"
)

// PassCatalog — то, что ядро потребляет от каталога passes.
type PassCatalog interface {
	// PassesForBackend возвращает passes backend'а в порядке регистрации.
	PassesForBackend(backend string) []domain.PassRef
}

// templateSuffix — суффикс имени pass-шаблона слоя.
const templateSuffix = "_template"

// IsTemplate возвращает true для passes, рендерящих шаблоны слоёв.
func IsTemplate(p domain.PassRef) bool {
	return strings.HasSuffix(string(p), templateSuffix)
}

// Catalog — реестр passes в памяти.
//
// Потокобезопасен. Повторная регистрация pass не меняет его позицию.
type Catalog struct {
	mu     sync.RWMutex
	passes map[string][]domain.PassRef
}

// New создаёт пустой каталог.
func New() *Catalog {
	return &Catalog{
		passes: make(map[string][]domain.PassRef),
	}
}

// Register добавляет passes backend'у.
func (c *Catalog) Register(backend string, passes ...domain.PassRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(backend)
	existing := c.passes[key]
	for _, p := range passes {
		if containsPass(existing, p) {
			continue
		}
		existing = append(existing, p)
	}
	c.passes[key] = existing
}

// Unregister удаляет pass backend'а.
func (c *Catalog) Unregister(backend string, pass domain.PassRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(backend)
	existing := c.passes[key]
	for i, p := range existing {
		if p == pass {
			c.passes[key] = append(existing[:i:i], existing[i+1:]...)
			return
		}
	}
}

// PassesForBackend возвращает копию списка passes backend'а.
func (c *Catalog) PassesForBackend(backend string) []domain.PassRef {
	c.mu.RLock()
	defer c.mu.RUnlock()

	existing := c.passes[strings.ToLower(backend)]
	out := make([]domain.PassRef, len(existing))
	copy(out, existing)
	return out
}

// Templates возвращает только passes-шаблоны backend'а.
func Templates(c PassCatalog, backend string) []domain.PassRef {
	var out []domain.PassRef
	for _, p := range c.PassesForBackend(backend) {
		if IsTemplate(p) {
			out = append(out, p)
		}
	}
	return out
}

// Backends возвращает отсортированный список backend'ов.
func (c *Catalog) Backends() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.passes))
	for b := range c.passes {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Count возвращает общее количество passes.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, ps := range c.passes {
		n += len(ps)
	}
	return n
}

func containsPass(list []domain.PassRef, p domain.PassRef) bool {
	for _, existing := range list {
		if existing == p {
			return true
		}
	}
	return false
}
