// Package server wires the privileged process together: configuration,
// logging, the document store, the session controller, the bridge
// dispatcher, and the gin router that carries the bridge websocket plus the
// health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/halogen-browser/halogen/backend/internal/api/middleware"
	"github.com/halogen-browser/halogen/backend/internal/bridge"
	httpapi "github.com/halogen-browser/halogen/backend/internal/http"
	"github.com/halogen-browser/halogen/backend/internal/infrastructure/config"
	"github.com/halogen-browser/halogen/backend/internal/infrastructure/monitoring"
	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/session"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"github.com/halogen-browser/halogen/backend/internal/store"
)

// Hosts are the OS-level collaborators the embedding layer injects. Any of
// them may be nil; the corresponding operations degrade to logged no-ops or
// failed results.
type Hosts struct {
	Window      session.WindowHost
	DataClearer session.DataClearer
	FilterMaker session.FilterFactory
	Sampler     session.Sampler
}

// Server is the privileged process.
type Server struct {
	cfg        *config.Config
	log        *logging.Logger
	metrics    *monitoring.Metrics
	store      *store.Store
	controller *session.Controller
	router     *gin.Engine
	httpSrv    *http.Server
}

// NewServer builds a fully wired server.
func NewServer(cfg *config.Config, hosts Hosts, log *logging.Logger) (*Server, error) {
	metrics := monitoring.NewMetrics()

	st, err := store.New(cfg.Storage.StateDir, log.Named("store"), metrics)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	controller := session.NewController(
		hosts.Window, hosts.DataClearer, hosts.FilterMaker, hosts.Sampler,
		log.Named("session"))

	dispatcher := bridge.NewDispatcher(log.Named("bridge"), metrics)
	registerBridgeOps(dispatcher, st, controller)
	bridgeSrv := bridge.NewServer(dispatcher, log.Named("bridge"), metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := httpapi.NewHandlers(st, controller, metrics)
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/bridge", bridgeSrv.HandleConnection)

	return &Server{
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		store:      st,
		controller: controller,
		router:     router,
	}, nil
}

// Run applies the persisted ad-filter state and serves until the listener
// fails or Shutdown is called.
func (s *Server) Run() error {
	s.applyPersistedFilterState()

	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}
	s.log.Info("privileged process listening", zap.String("addr", addr))

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and tears down the session controller.
func (s *Server) Shutdown(ctx context.Context) error {
	s.controller.Shutdown()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Controller exposes the session controller, mainly for host wiring.
func (s *Server) Controller() *session.Controller {
	return s.controller
}

// applyPersistedFilterState reads the privacy flag out of the persisted
// settings document and brings the filter engine up if it was on. Runs in
// the background: startup must not block on rule compilation, and a
// toggle-off arriving meanwhile wins (the controller checks).
func (s *Server) applyPersistedFilterState() {
	data, err := s.store.Read(store.DocSettings)
	if err != nil {
		s.log.Warn("settings unavailable, leaving ad filter off", zap.Error(err))
		return
	}
	doc := types.DefaultSettings()
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("settings malformed, leaving ad filter off", zap.Error(err))
		return
	}

	go s.controller.Initialize(context.Background(), doc.Privacy.AdBlockerEnabled)
}
