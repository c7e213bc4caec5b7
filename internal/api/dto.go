package api

import (
	"github.com/starford/threads/internal/index"
	"github.com/starford/threads/internal/models"
)

// AddThreadRequest is the request body for adding a thread.
type AddThreadRequest struct {
	Body string `json:"body" example:"call the plumber" validate:"required"`
}

// Thread is a single thread line (aliased from the domain layer).
type Thread = models.Thread

// ThreadListResponse wraps thread listings.
type ThreadListResponse struct {
	Threads []Thread `json:"threads" validate:"required"`
	Total   int      `json:"total" example:"7" validate:"required"`
}

// ReorderResponse reports the result of a reorder.
type ReorderResponse = models.ReorderSummary

// CountsResponse holds open and closed totals.
type CountsResponse = models.Counts

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
