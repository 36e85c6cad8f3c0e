package devserver

// Route path constants
// All dev backend routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"

	// API Routes
	RouteMe            = "/api/me"
	RouteCMSSites      = "/api/cms-sites"
	RouteCMSSite       = "/api/cms-sites/{id}"
	RouteHelpdeskSites = "/api/helpdesk-sites"
	RouteHelpdeskSite  = "/api/helpdesk-sites/{id}"
	RouteUsers         = "/api/users"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
