package sites

import (
	"time"
)

// Route path constants for the two site collections
const (
	RouteCMSSites      = "/api/cms-sites"
	RouteHelpdeskSites = "/api/helpdesk-sites"
)

// Status values used by the dashboard. The server may send others; they are kept as-is.
const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

// CMSSite is a content-management site under maintenance
type CMSSite struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	URL            string     `json:"url,omitempty"`
	Platform       string     `json:"platform,omitempty"` // wordpress, drupal, ...
	Version        string     `json:"version,omitempty"`
	Status         string     `json:"status,omitempty"`
	Owner          string     `json:"owner,omitempty"`
	LastMaintained *time.Time `json:"lastMaintained,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// HelpdeskSite is a helpdesk instance under maintenance
type HelpdeskSite struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	URL            string     `json:"url,omitempty"`
	Provider       string     `json:"provider,omitempty"` // zendesk, freshdesk, ...
	Status         string     `json:"status,omitempty"`
	SupportEmail   string     `json:"supportEmail,omitempty"`
	OpenTickets    *int       `json:"openTickets,omitempty"`
	LastMaintained *time.Time `json:"lastMaintained,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}
