package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Flows
	mux.Handle("GET /api/v1/flows", chain(http.HandlerFunc(h.ListFlows)))
	mux.Handle("GET /api/v1/flows/{id}", chain(http.HandlerFunc(h.GetFlow)))
	mux.Handle("GET /api/v1/flows/{id}/order", chain(http.HandlerFunc(h.GetFlowOrder)))
	mux.Handle("GET /api/v1/flows/{id}/plan", chain(http.HandlerFunc(h.GetFlowPlan)))

	// Builds
	mux.Handle("GET /api/v1/builds", chain(http.HandlerFunc(h.ListBuilds)))
	mux.Handle("POST /api/v1/builds", chain(http.HandlerFunc(h.CreateBuild)))
	mux.Handle("GET /api/v1/builds/{id}", chain(http.HandlerFunc(h.GetBuild)))
}
