// Package links resolves short forum URLs to their canonical slugged
// form by following HTTP redirects.
package links

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
)

var _ driven.LinkResolver = (*HTTPResolver)(nil)

// DefaultTimeout bounds a single resolution request.
const DefaultTimeout = 15 * time.Second

// HTTPResolver expands a URL by issuing a request and reporting the
// final URL after redirects. Discourse redirects /t/<id>/<post> to the
// slugged topic path, which is what we store.
type HTTPResolver struct {
	client *http.Client
}

// NewHTTPResolver creates a resolver with the given timeout. A zero
// timeout uses DefaultTimeout.
func NewHTTPResolver(timeout time.Duration) *HTTPResolver {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &HTTPResolver{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Resolve follows redirects from url and returns the final URL.
func (r *HTTPResolver) Resolve(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("resolve %s: %w", url, domain.ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("resolve %s: status %d", url, resp.StatusCode)
	}

	return resp.Request.URL.String(), nil
}
