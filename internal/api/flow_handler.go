package api

import (
	"net/http"
	"strings"

	"github.com/shaiso/Synthflow/internal/domain"
)

// ListFlows возвращает зарегистрированные flows.
// GET /api/v1/flows?backend=...
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	defs := h.flows.Flows(r.URL.Query().Get("backend"))

	result := make([]FlowResponse, len(defs))
	for i, def := range defs {
		result[i] = FlowFromDomain(def)
	}

	List(w, result, len(result))
}

// GetFlow возвращает flow по ID вида backend:name.
// GET /api/v1/flows/{id}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	id, ok := flowIDParam(w, r)
	if !ok {
		return
	}

	def, err := h.flows.Get(id)
	if HandleError(w, h.logger, err) {
		return
	}

	Success(w, FlowFromDomain(def))
}

// GetFlowOrder возвращает порядок выполнения flow и его зависимостей.
// GET /api/v1/flows/{id}/order
func (h *Handler) GetFlowOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := flowIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.resolver.Resolve(id)
	if HandleError(w, h.logger, err) {
		return
	}

	List(w, order, len(order))
}

// GetFlowPlan возвращает план выполнения с passes каждого flow.
// GET /api/v1/flows/{id}/plan
func (h *Handler) GetFlowPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := flowIDParam(w, r)
	if !ok {
		return
	}

	plan, err := h.resolver.Plan(id)
	if HandleError(w, h.logger, err) {
		return
	}

	Success(w, PlanFromEngine(plan))
}

func flowIDParam(w http.ResponseWriter, r *http.Request) (domain.FlowID, bool) {
	id := domain.FlowID(r.PathValue("id"))
	if !strings.Contains(string(id), ":") || id.Backend() == "" || id.Name() == "" {
		BadRequest(w, "flow id must look like backend:name")
		return "", false
	}
	return id, true
}
