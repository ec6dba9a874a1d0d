package domain

import (
	"strings"
)

// PassRef — имя отдельного шага трансформации (pass).
//
// Для ядра PassRef непрозрачен: сравнение только по имени.
// Примеры: "vivado:transform_types", "make_stamp".
type PassRef string

// String возвращает имя pass.
func (p PassRef) String() string {
	return string(p)
}

// FlowID — стабильный идентификатор flow в формате "<backend>:<name>".
//
// Пустой FlowID означает отсутствующую ссылку и отфильтровывается
// при регистрации.
type FlowID string

// NewFlowID собирает FlowID из имени backend и имени flow.
// Имя backend приводится к нижнему регистру.
func NewFlowID(backend, name string) FlowID {
	return FlowID(strings.ToLower(backend) + ":" + name)
}

// String возвращает строковое представление FlowID.
func (id FlowID) String() string {
	return string(id)
}

// IsZero возвращает true для отсутствующей ссылки.
func (id FlowID) IsZero() bool {
	return id == ""
}

// Backend возвращает часть идентификатора до двоеточия.
func (id FlowID) Backend() string {
	backend, _, _ := strings.Cut(string(id), ":")
	return backend
}

// Name возвращает часть идентификатора после двоеточия.
func (id FlowID) Name() string {
	_, name, found := strings.Cut(string(id), ":")
	if !found {
		return string(id)
	}
	return name
}

// PassSource — список passes flow: либо готовый, либо отложенный.
//
// Отложенный producer вызывается лениво, во время разрешения зависимостей,
// чтобы список строился по актуальному состоянию каталога passes,
// а не по состоянию на момент регистрации.
type PassSource struct {
	static   []PassRef
	producer func() []PassRef
}

// StaticPasses создаёт PassSource с готовым упорядоченным списком.
func StaticPasses(passes ...PassRef) PassSource {
	cp := make([]PassRef, len(passes))
	copy(cp, passes)
	return PassSource{static: cp}
}

// DeferredPasses создаёт PassSource с отложенным producer.
// nil producer эквивалентен пустому списку.
func DeferredPasses(producer func() []PassRef) PassSource {
	return PassSource{producer: producer}
}

// IsDeferred возвращает true, если список вычисляется лениво.
func (s PassSource) IsDeferred() bool {
	return s.producer != nil
}

// Resolve возвращает список passes.
// Для отложенного источника producer вызывается при каждом вызове Resolve.
func (s PassSource) Resolve() []PassRef {
	if s.producer != nil {
		passes := s.producer()
		cp := make([]PassRef, len(passes))
		copy(cp, passes)
		return cp
	}
	cp := make([]PassRef, len(s.static))
	copy(cp, s.static)
	return cp
}

// FlowDefinition — зарегистрированный flow.
//
// Создаётся один раз при конструировании backend и дальше не меняется.
// Владелец — реестр flows.
type FlowDefinition struct {
	// ID — идентификатор "<backend>:<name>".
	ID FlowID `json:"id"`

	// Backend — имя backend-владельца.
	Backend string `json:"backend"`

	// Name — имя flow внутри backend.
	Name string `json:"name"`

	// Passes — passes flow (готовые или отложенные).
	Passes PassSource `json:"-"`

	// Requires — flows, которые должны выполниться раньше этого.
	// Без пустых ссылок и без дубликатов, порядок объявления сохранён.
	Requires []FlowID `json:"requires,omitempty"`
}

// NormalizeRequires отбрасывает пустые ссылки и повторы, сохраняя порядок.
// Список только из пустых ссылок превращается в "нет зависимостей".
func NormalizeRequires(requires []FlowID) []FlowID {
	out := make([]FlowID, 0, len(requires))
	seen := make(map[FlowID]struct{}, len(requires))
	for _, id := range requires {
		if id.IsZero() {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
