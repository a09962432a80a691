package driven

import "context"

// LinkCache is a cross-run key-value cache of expanded URLs.
// It is injected rather than held as process state so it can be
// swapped or mocked in tests.
type LinkCache interface {
	// Get returns the cached expansion for key, if present.
	Get(key string) (string, bool)

	// Put records an expansion.
	Put(key, value string)

	// Flush persists the cache to its backing store.
	Flush() error
}

// LinkResolver expands a short URL to its canonical slugged form,
// typically by following redirects.
type LinkResolver interface {
	// Resolve returns the canonical URL the input redirects to.
	Resolve(ctx context.Context, url string) (string, error)
}
