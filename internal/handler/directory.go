package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/boarding"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/service"
)

// DirectoryHandler serves schedule search and the boarding point
// directory.
type DirectoryHandler struct {
	search *service.SearchService
	points boarding.Directory
}

func NewDirectoryHandler(search *service.SearchService, points boarding.Directory) *DirectoryHandler {
	return &DirectoryHandler{search: search, points: points}
}

// SearchSchedules handles GET /schedules?from=&to=&date=
func (h *DirectoryHandler) SearchSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hits, err := h.search.Search(r.Context(), q.Get("from"), q.Get("to"), q.Get("date"))
	if err != nil {
		writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hits)
}

// BoardingPoints handles GET /cities/{city}/boarding-points
func (h *DirectoryHandler) BoardingPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.points.BoardingPoints(chi.URLParam(r, "city")))
}

// DroppingPoints handles GET /cities/{city}/dropping-points
func (h *DirectoryHandler) DroppingPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.points.DroppingPoints(chi.URLParam(r, "city")))
}
