package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/ofertas/cmd/web/components"
	"github.com/rubiojr/ofertas/cmd/web/components/types"
	"github.com/rubiojr/ofertas/pkg/api"
	"github.com/rubiojr/ofertas/pkg/config"
	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/log"
	"github.com/rubiojr/ofertas/pkg/realtime"
	"github.com/rubiojr/ofertas/pkg/search"
	"github.com/rubiojr/ofertas/pkg/version"
	"github.com/rubiojr/ofertas/pkg/view"
	"github.com/urfave/cli/v3"
)

var webLogger = log.ForService("web")

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (defaults to the config value)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (defaults to the config value)",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key sent with every page search (overrides config and environment)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"), c.String("api-key"))
		},
	}
}

// WebServer holds the page handlers and their dependencies
type WebServer struct {
	controller   *view.Controller
	orchestrator *search.Orchestrator
	hub          *realtime.Hub
	apiServer    *api.Server
	apiOpts      api.Options
}

// NewWebServer wires a controller around orch and publishes its transitions
// to a realtime hub.
func NewWebServer(orch *search.Orchestrator, searchTimeout time.Duration, apiOpts api.Options) *WebServer {
	hub := realtime.NewHub(0)
	controller := view.NewController(orch, view.ControllerOptions{
		SearchTimeout: searchTimeout,
		Notify:        hub.Publish,
	})
	return &WebServer{
		controller:   controller,
		orchestrator: orch,
		hub:          hub,
		apiServer:    api.NewServer(controller, orch, hub, apiOpts),
		apiOpts:      apiOpts,
	}
}

// Handler returns the full HTTP handler: UI, API, CORS and compression.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	s.apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /category/{id}", s.handleCategory)
	mux.HandleFunc("POST /dismiss", s.handleDismiss)
	mux.HandleFunc("GET /static/", s.handleStatic)

	// Upgrades need the raw ResponseWriter, so the websocket stays uncompressed.
	compressed := gzhttp.GzipHandler(mux)
	return api.CorsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/ws" {
			mux.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	}), s.apiOpts)
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port, apiKey string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if host == "" {
		host = cfg.Web.Host
	}
	if port == "" {
		port = strconv.Itoa(cfg.Web.Port)
	}

	apiOpts := api.Options{CrossOrigin: isLoopback(host)}
	if !apiOpts.CrossOrigin {
		webLogger.Infof("binding %s: cross-origin API access disabled", host)
	}

	orch := search.New(nil, searchOptions(cfg))
	webServer := NewWebServer(orch, cfg.SearchTimeout.Duration, apiOpts)
	webServer.controller.SetAPIKey(apiKey)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		err := config.Watch(ctx, configPath, func(newCfg *config.Config) {
			webServer.applyConfig(newCfg)
			webLogger.Infof("search options reloaded from %s", configPath)
		})
		if err != nil {
			webLogger.Warnf("config watcher disabled: %v", err)
		}
	}()

	server := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		webLogger.Infof("Starting web server on http://%s", server.Addr)
		webLogger.Infof("Available endpoints:")
		webLogger.Infof("  Web UI:")
		webLogger.Infof("    GET / - Search page")
		webLogger.Infof("    POST /search, /category/{id}, /dismiss - Page actions")
		webLogger.Infof("    GET /static/ - Stylesheet and live reload script")
		webLogger.Infof("  API:")
		webLogger.Infof("    GET /api/state - Current view state")
		webLogger.Infof("    POST /api/submit, /api/categories/{id}, /api/dismiss - View actions")
		webLogger.Infof("    POST /api/search - Synchronous search")
		webLogger.Infof("    GET /api/categories - Quick categories")
		webLogger.Infof("    GET /api/ws - State updates (websocket)")
		webLogger.Infof("    GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case <-sigCh:
	case <-ctx.Done():
	}

	webLogger.Infof("Shutting down web server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// applyConfig swaps in reloaded search settings. Listen address and origin
// policy still need a restart.
func (s *WebServer) applyConfig(cfg *config.Config) {
	s.orchestrator.SetOptions(searchOptions(cfg))
	s.controller.SetSearchTimeout(cfg.SearchTimeout.Duration)
}

// isLoopback reports whether host only accepts local connections. An empty
// host binds every interface.
func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Web UI Handlers

// handleHome renders the page for the current controller state
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	state := s.controller.Snapshot()
	data := types.PageData{
		Title:      "SerralheiroOfertas - Busca de ofertas",
		State:      state,
		Categories: deals.Categories(),
		Version:    version.APIVersion(),
		Year:       time.Now().Year(),
	}
	if state.State == view.Success && state.Result != nil {
		data.Lines = view.Format(state.Result.Text)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Index(data).Render(r.Context(), w); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// handleSearch submits the form query. Ignored submissions (blank, busy)
// leave the page as it is.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Submit(r.FormValue("q")); err != nil {
		webLogger.Debugf("search form ignored: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) handleCategory(w http.ResponseWriter, r *http.Request) {
	err := s.controller.SelectCategory(r.PathValue("id"))
	if errors.Is(err, view.ErrUnknownCategory) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		webLogger.Debugf("category ignored: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) handleDismiss(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Dismiss(); err != nil {
		webLogger.Debugf("dismiss ignored: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	} else if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(content)
}
