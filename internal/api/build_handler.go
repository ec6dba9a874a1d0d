package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/repo"
)

// defaultListLimit — размер страницы по умолчанию.
const defaultListLimit = 50

// ListBuilds возвращает историю сборок с фильтрацией.
// GET /api/v1/builds?backend=...&status=...&limit=...&offset=...
func (h *Handler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repo.NewBuildFilter(
		q.Get("backend"),
		q.Get("status"),
		parseInt(q.Get("limit"), defaultListLimit),
		parseInt(q.Get("offset"), 0),
	)

	builds, err := h.builds.List(r.Context(), filter)
	if HandleError(w, h.logger, err) {
		return
	}

	result := make([]BuildResponse, len(builds))
	for i, b := range builds {
		result[i] = BuildFromDomain(b)
	}

	List(w, result, len(result))
}

// GetBuild возвращает запись о сборке по ID.
// GET /api/v1/builds/{id}
func (h *Handler) GetBuild(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid build id")
		return
	}

	build, err := h.builds.GetByID(r.Context(), id)
	if HandleError(w, h.logger, err) {
		return
	}

	Success(w, BuildFromDomain(*build))
}

// CreateBuild ставит сборку в очередь worker'а.
// POST /api/v1/builds
func (h *Handler) CreateBuild(w http.ResponseWriter, r *http.Request) {
	var req CreateBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.ProjectDir == "" {
		BadRequest(w, "project_dir is required")
		return
	}
	if !filepath.IsAbs(req.ProjectDir) {
		BadRequest(w, "project_dir must be an absolute path")
		return
	}

	stages := domain.DefaultStageFlags()
	if len(req.Stages) > 0 {
		var err error
		if stages, err = domain.StageFlagsFromNames(req.Stages); err != nil {
			BadRequest(w, err.Error())
			return
		}
	}

	b, err := h.backends.Get(req.Backend)
	if HandleError(w, h.logger, err) {
		return
	}

	if h.publisher == nil {
		Unavailable(w, "build queue is not configured")
		return
	}

	payload := mq.BuildRequestedPayload{
		Backend: b.Name(),
		Request: domain.BuildRequest{ProjectDir: req.ProjectDir, Stages: stages},
	}
	if err := h.publisher.PublishBuildRequested(r.Context(), payload); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Accepted(w, BuildAcceptedResponse{
		Backend:    payload.Backend,
		ProjectDir: req.ProjectDir,
		Stages:     stages,
	})
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
