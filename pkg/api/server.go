package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/ofertas/pkg/log"
	"github.com/rubiojr/ofertas/pkg/realtime"
	"github.com/rubiojr/ofertas/pkg/view"
)

var logger = log.ForService("api")

// Options controls how the API treats browsers on other origins.
type Options struct {
	// CrossOrigin allows any origin: CORS headers carry "*" and websocket
	// upgrades ignore the Origin header. Only safe on loopback binds.
	CrossOrigin bool
}

type Server struct {
	controller *view.Controller
	searcher   view.Searcher
	hub        *realtime.Hub
	upgrader   websocket.Upgrader
}

// NewServer returns the JSON API around controller. searcher answers the
// synchronous /api/search endpoint; hub feeds the websocket endpoint.
func NewServer(controller *view.Controller, searcher view.Searcher, hub *realtime.Hub, opts Options) *Server {
	checkOrigin := SameOrigin
	if opts.CrossOrigin {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Server{
		controller: controller,
		searcher:   searcher,
		hub:        hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

// SameOrigin reports whether r has no Origin header or one naming r.Host.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// CorsMiddleware answers CORS for every origin when opts.CrossOrigin is set.
// Otherwise no CORS headers are sent and state changing requests from a
// foreign Origin are refused.
func CorsMiddleware(next http.Handler, opts Options) http.Handler {
	if !opts.CrossOrigin {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead && !SameOrigin(r) {
				logger.Warnf("refused cross-origin %s %s from %s", r.Method, r.URL.Path, r.Header.Get("Origin"))
				http.Error(w, "cross-origin request refused", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
