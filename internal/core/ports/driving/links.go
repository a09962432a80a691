package driving

import "context"

// LinkService maintains the canonical form of stored forum URLs.
type LinkService interface {
	// FixForumURLs expands bare /t/<topic>/<post> forum URLs to their
	// slugged canonical form, consulting the injected cache before the
	// network. It returns the number of chunks rewritten.
	FixForumURLs(ctx context.Context) (int, error)
}
