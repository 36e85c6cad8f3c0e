package sites

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-maint-dashboard/apiclient"
)

// Collection is typed CRUD over one site collection. Every call goes through the
// authenticated client, so an expired access token is refreshed and the call replayed.
type Collection[T any] struct {
	client *apiclient.Client
	path   string
	label  string // used in fallback messages
}

func newCollection[T any](client *apiclient.Client, path, label string) *Collection[T] {
	return &Collection[T]{client: client, path: path, label: label}
}

// Service groups the dashboard's site collections
type Service struct {
	CMS      *Collection[CMSSite]
	Helpdesk *Collection[HelpdeskSite]
}

func NewService(client *apiclient.Client) *Service {
	return &Service{
		CMS:      newCollection[CMSSite](client, RouteCMSSites, "CMS site"),
		Helpdesk: newCollection[HelpdeskSite](client, RouteHelpdeskSites, "helpdesk site"),
	}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, c.path, nil, &out, fmt.Sprintf("Failed to load %ss", c.label)); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, c.itemPath(id), nil, &out, fmt.Sprintf("Failed to load %s", c.label)); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts item and returns the stored record, including its server-assigned ID
func (c *Collection[T]) Create(ctx context.Context, item T) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, c.path, item, &out, fmt.Sprintf("Failed to create %s", c.label)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPut, c.itemPath(id), item, &out, fmt.Sprintf("Failed to update %s", c.label)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.itemPath(id), nil, nil, fmt.Sprintf("Failed to delete %s", c.label))
}

func (c *Collection[T]) itemPath(id string) string {
	return c.path + "/" + url.PathEscape(id)
}

func (c *Collection[T]) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	res, err := c.client.Do(ctx, apiclient.RequestConfig{
		Method:          method,
		Path:            path,
		Body:            in,
		FallbackMessage: fallback,
	})
	if err != nil {
		return err
	}
	return res.Decode(out)
}
