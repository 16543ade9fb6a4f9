package api

import (
	"time"

	"github.com/rubiojr/ofertas/pkg/deals"
)

type SubmitRequest struct {
	Query string `json:"query"`
}

type SearchRequest struct {
	Query  string `json:"query"`
	APIKey string `json:"api_key,omitempty"`
}

type SearchResponse struct {
	Query  string             `json:"query"`
	Result deals.SearchResult `json:"result"`
}

type ListCategoriesResponse struct {
	Categories []deals.QuickCategory `json:"categories"`
	Count      int                   `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Listeners int       `json:"listeners"`
}
