package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/storyservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *storyservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *storyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// domainPath extracts the domain path from the URL (everything after /api/domains/).
// Supports encoded slashes from OpenAPI clients (e.g. tales%2Ffairy.yaml).
func domainPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("already exists"))
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUnknownMetric):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// startsParam returns the start intention ids from repeated "start" query
// parameters. Absence yields nil, which the explorer treats as "all roots".
func startsParam(r *http.Request) []string {
	vals := r.URL.Query()["start"]
	if len(vals) == 0 {
		return nil
	}
	return vals
}

// ListDomains handles GET /api/domains.
//
//	@Summary		List catalogued domains
//	@Tags			domains
//	@Produce		json
//	@Success		200	{object}	DomainListResponse
//	@Security		BearerAuth
//	@Router			/domains [get]
func (h *Handler) ListDomains(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListDomains(r.Context())
	if err != nil {
		writeServiceError(w, "list domains", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"domains": rows,
		"total":   len(rows),
	})
}

// GetDomain handles GET /api/domains/*.
//
//	@Summary		Get a single domain by path
//	@Tags			domains
//	@Produce		json
//	@Param			path	path		string	true	"Domain path"
//	@Success		200		{object}	DomainDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/domains/{path} [get]
func (h *Handler) GetDomain(w http.ResponseWriter, r *http.Request) {
	path := domainPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	detail, err := h.svc.GetDomain(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get domain", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// CreateDomain handles POST /api/domains.
//
//	@Summary		Create a new domain file
//	@Tags			domains
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateDomainRequest	true	"Domain to create"
//	@Success		201		{object}	DomainDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/domains [post]
func (h *Handler) CreateDomain(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and content are required"))
		return
	}
	detail, err := h.svc.CreateDomain(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		writeServiceError(w, "create domain", err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// Validate handles GET /api/validate.
//
//	@Summary		Referential consistency report for a domain
//	@Tags			domains
//	@Produce		json
//	@Param			path	query		string	true	"Domain path"
//	@Success		200		{object}	ValidateResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/validate [get]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	report, err := h.svc.ValidateDomain(r.Context(), path)
	if err != nil {
		writeServiceError(w, "validate domain", err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  len(report) == 0,
		Report: report,
	})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get a domain's dependency graph
//	@Tags			graph
//	@Produce		json
//	@Param			path	query		string	true	"Domain path"
//	@Success		200		{object}	storyservice.GraphView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	view, err := h.svc.Graph(r.Context(), path)
	if err != nil {
		writeServiceError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Trajectories handles GET /api/trajectories.
//
//	@Summary		Enumerate trajectories through a domain's graph
//	@Tags			trajectories
//	@Produce		json
//	@Param			path		query		string	true	"Domain path"
//	@Param			max_length	query		int		false	"Max trajectory length"
//	@Param			metric		query		string	false	"Ranking metric"	Enums(novelty, coherence, drama)
//	@Param			start		query		string	false	"Start intention id (repeatable)"
//	@Success		200			{object}	TrajectoriesResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trajectories [get]
func (h *Handler) Trajectories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	maxLength, _ := strconv.Atoi(q.Get("max_length"))
	metric := q.Get("metric")

	scored, err := h.svc.Trajectories(r.Context(), path, maxLength, startsParam(r), metric)
	if err != nil {
		writeServiceError(w, "trajectories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trajectories": scored,
		"total":        len(scored),
		"metric":       metric,
	})
}

// RandomTrajectory handles GET /api/trajectories/random.
//
//	@Summary		Sample one random trajectory through a domain's graph
//	@Tags			trajectories
//	@Produce		json
//	@Param			path		query		string	true	"Domain path"
//	@Param			max_length	query		int		false	"Max trajectory length"
//	@Param			start		query		string	false	"Start intention id (repeatable)"
//	@Success		200			{object}	RandomTrajectoryResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trajectories/random [get]
func (h *Handler) RandomTrajectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	maxLength, _ := strconv.Atoi(q.Get("max_length"))

	t, err := h.svc.RandomTrajectory(r.Context(), path, maxLength, startsParam(r))
	if err != nil {
		writeServiceError(w, "random trajectory", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trajectory": t})
}

// RenderStory handles POST /api/stories.
//
//	@Summary		Render the best trajectory of a domain into a story
//	@Tags			stories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenderStoryRequest	true	"Render parameters"
//	@Success		201		{object}	library.StoryRow
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/stories [post]
func (h *Handler) RenderStory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RenderStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	story, err := h.svc.RenderStory(r.Context(), req.Path, req.MaxLength, req.Starts, req.Metric)
	if err != nil {
		writeServiceError(w, "render story", err)
		return
	}
	writeJSON(w, http.StatusCreated, story)
}

// ListStories handles GET /api/stories.
//
//	@Summary		List archived stories
//	@Tags			stories
//	@Produce		json
//	@Param			path	query		string	false	"Filter by domain path"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	StoryListResponse
//	@Security		BearerAuth
//	@Router			/stories [get]
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	stories, total, err := h.svc.ListStories(r.Context(), q.Get("path"), limit, offset)
	if err != nil {
		writeServiceError(w, "list stories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stories": stories,
		"total":   total,
	})
}

// GetStory handles GET /api/stories/{id}.
//
//	@Summary		Get one archived story
//	@Tags			stories
//	@Produce		json
//	@Param			id	path		string	true	"Story id"
//	@Success		200	{object}	library.StoryRow
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/stories/{id} [get]
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	story, err := h.svc.GetStory(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get story", err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across archived stories
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchStories(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}
