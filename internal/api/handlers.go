package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/threads/internal/apperr"
	"github.com/starford/threads/internal/checksum"
	"github.com/starford/threads/internal/threadservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *threadservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *threadservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListThreads handles GET /api/threads.
//
//	@Summary		List threads in file order
//	@Tags			threads
//	@Produce		json
//	@Param			status	query		string	false	"Status filter"	Enums(open, closed, all)
//	@Success		200		{object}	ThreadListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/threads [get]
func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	items, err := h.svc.List(r.Context(), status)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidFilter) {
			writeJSON(w, http.StatusBadRequest, errorBody("status must be open, closed or all"))
			return
		}
		slog.Error("list threads failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if sum, err := h.svc.Checksum(); err == nil {
		w.Header().Set("ETag", checksum.ETag(sum))
	}
	writeJSON(w, http.StatusOK, ThreadListResponse{Threads: items, Total: len(items)})
}

// AddThread handles POST /api/threads.
//
//	@Summary		Append a new open thread
//	@Tags			threads
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AddThreadRequest	true	"Thread to add"
//	@Success		201		{object}	Thread
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/threads [post]
func (h *Handler) AddThread(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AddThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	t, err := h.svc.Add(r.Context(), req.Body)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidBody) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("add thread failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// CompleteThread handles POST /api/threads/open/{n}/done.
//
//	@Summary		Close the nth open thread (0-based, file order)
//	@Tags			threads
//	@Produce		json
//	@Param			n	path		int	true	"Open-thread ordinal"
//	@Success		200	{object}	Thread
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/threads/open/{n}/done [post]
func (h *Handler) CompleteThread(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("n must be an integer"))
		return
	}
	t, err := h.svc.Complete(r.Context(), n)
	if err != nil {
		if errors.Is(err, apperr.ErrOutOfRange) {
			writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
			return
		}
		slog.Error("complete thread failed", slog.Int("n", n), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Reorder handles POST /api/reorder.
//
//	@Summary		Rewrite the file into sorted Open/Closed sections
//	@Tags			threads
//	@Produce		json
//	@Success		200	{object}	ReorderResponse
//	@Security		BearerAuth
//	@Router			/reorder [post]
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reorder(r.Context())
	if err != nil {
		slog.Error("reorder failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Counts handles GET /api/counts.
//
//	@Summary		Open and closed totals
//	@Tags			threads
//	@Produce		json
//	@Success		200	{object}	CountsResponse
//	@Security		BearerAuth
//	@Router			/counts [get]
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Counts(r.Context())
	if err != nil {
		slog.Error("counts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Search handles GET /api/search.
//
//	@Summary		Search thread text
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
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrNoIndex) {
			writeJSON(w, http.StatusNotImplemented, errorBody(err.Error()))
			return
		}
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: nonNil(results)})
}
