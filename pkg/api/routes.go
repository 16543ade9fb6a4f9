package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", s.HandleState)
	mux.HandleFunc("POST /api/submit", s.HandleSubmit)
	mux.HandleFunc("POST /api/categories/{id}", s.HandleSelectCategory)
	mux.HandleFunc("POST /api/dismiss", s.HandleDismiss)
	mux.HandleFunc("GET /api/categories", s.HandleListCategories)
	mux.HandleFunc("POST /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/ws", s.HandleWebSocket)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
