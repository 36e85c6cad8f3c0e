package devserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Protected API routes (require a valid access token)
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.registerCollection(RouteCMSSites, RouteCMSSite, s.cms)
	s.registerCollection(RouteHelpdeskSites, RouteHelpdeskSite, s.helpdesk)

	// ADMIN
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))
}

func (s *Server) registerCollection(listRoute, itemRoute string, c *collection) {
	read := s.APIMiddleware(s.RequireAuth())
	write := s.APIMiddleware(s.RequireAuth(), s.RequireEditor())

	s.RegisterRouteHandler("GET "+listRoute, ChainMiddleware(s.ListSitesHandler(c), read...))
	s.RegisterRouteHandler("POST "+listRoute, ChainMiddleware(s.CreateSiteHandler(c), write...))
	s.RegisterRouteHandler("GET "+itemRoute, ChainMiddleware(s.GetSiteHandler(c), read...))
	s.RegisterRouteHandler("PUT "+itemRoute, ChainMiddleware(s.UpdateSiteHandler(c), write...))
	s.RegisterRouteHandler("DELETE "+itemRoute, ChainMiddleware(s.DeleteSiteHandler(c), write...))
}

// HealthHandler reports liveness
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
