package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/version"
	"github.com/rubiojr/ofertas/pkg/view"
)

func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	s.transition(w, s.controller.Submit(req.Query))
}

func (s *Server) HandleSelectCategory(w http.ResponseWriter, r *http.Request) {
	s.transition(w, s.controller.SelectCategory(r.PathValue("id")))
}

func (s *Server) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	s.transition(w, s.controller.Dismiss())
}

// transition maps controller errors to HTTP statuses and otherwise answers
// with the new snapshot.
func (s *Server) transition(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusAccepted, s.controller.Snapshot())
	case errors.Is(err, view.ErrEmptyQuery):
		s.writeError(w, http.StatusBadRequest, "Missing query", "Query must not be empty")
	case errors.Is(err, view.ErrUnknownCategory):
		s.writeError(w, http.StatusNotFound, "Category not found", err.Error())
	case errors.Is(err, view.ErrBusy), errors.Is(err, view.ErrInvalidTransition):
		s.writeError(w, http.StatusConflict, "Invalid state", err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "Transition failed", err.Error())
	}
}

func (s *Server) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := deals.Categories()
	s.writeJSON(w, http.StatusOK, ListCategoriesResponse{
		Categories: cats,
		Count:      len(cats),
	})
}

// HandleSearch runs one search synchronously, bypassing the page state.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query", "Query must not be empty")
		return
	}

	result, err := s.searcher.SearchDeals(r.Context(), query, req.APIKey)
	if err != nil {
		logger.Warnf("search %q failed: %v", query, err)
		s.writeError(w, http.StatusBadGateway, "Search failed", view.ErrorMessage)
		return
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{Query: query, Result: result})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
		Listeners: s.hub.Size(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
