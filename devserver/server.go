package devserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	"github.com/jrsteele09/go-maint-dashboard/token"
	"github.com/jrsteele09/go-maint-dashboard/token/jwt"
	"github.com/jrsteele09/go-maint-dashboard/token/refresh"
	"github.com/jrsteele09/go-maint-dashboard/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type Config interface {
	config.EnvConfig
	config.DevServerConfig
}

// Server is an in-memory stand-in for the dashboard backend: JSON login, refresh and
// logout, JWT-protected /api/me and the two site collections.
type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config Config
	logger zerolog.Logger

	users         users.UserRepo
	tokens        *jwt.Creator
	refreshTokens *refresh.Manager
	revoked       token.RevokedTokenCache

	cms      *collection
	helpdesk *collection

	registry *prometheus.Registry
	metrics  *metrics
}

func New(cfg Config, userRepo users.UserRepo, refreshRepo refresh.Repo, logger zerolog.Logger) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		env:           cfg.GetEnv(),
		mux:           http.NewServeMux(),
		config:        cfg,
		logger:        logger.With().Str("component", "devserver").Logger(),
		users:         userRepo,
		tokens:        jwt.NewCreator(cfg),
		refreshTokens: refresh.NewManager(refreshRepo, cfg),
		revoked:       token.NewInMemoryRevokedTokenCache(time.Minute),
		cms:           newCollection("CMS site", "cms"),
		helpdesk:      newCollection("Helpdesk site", "helpdesk"),
		registry:      registry,
		metrics:       newMetrics(registry),
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered route patterns in registration order
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.Routes() {
		method, path := "", route
		if parts := strings.SplitN(route, " ", 2); len(parts) > 1 {
			method, path = parts[0], parts[1]
		}
		s.logger.Info().Msg(fmt.Sprintf("[%-19s] %s", colouredMethod(method), path))
	}
}
