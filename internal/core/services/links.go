package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/core/ports/driving"
	"github.com/campuskit/courseqa/internal/logger"
)

// Ensure LinkFixer implements the interface.
var _ driving.LinkService = (*LinkFixer)(nil)

// LinkFixer expands bare forum URLs (/t/<topic_id>/<post_number>) to
// their slugged canonical form. Expansion follows one redirect per
// topic through the resolver; the injected cache keeps results across
// runs so repeated fixes touch the network once per topic.
type LinkFixer struct {
	store    driven.ChunkStore
	cache    driven.LinkCache
	resolver driven.LinkResolver
}

// NewLinkFixer creates a link-fix service.
func NewLinkFixer(store driven.ChunkStore, cache driven.LinkCache, resolver driven.LinkResolver) *LinkFixer {
	return &LinkFixer{store: store, cache: cache, resolver: resolver}
}

// FixForumURLs rewrites every bare forum chunk URL it can expand and
// returns the number of chunks updated. Per-URL failures are logged
// and skipped. The cache is flushed once at the end of the pass.
func (f *LinkFixer) FixForumURLs(ctx context.Context) (int, error) {
	logger.Section("Forum URL Expansion")

	urls, err := f.store.ForumURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list forum urls: %w", err)
	}

	fixed := 0
	for chunkID, oldURL := range urls {
		newURL, ok := f.expand(ctx, oldURL)
		if !ok || newURL == oldURL {
			continue
		}
		if err := f.store.UpdateURL(ctx, chunkID, newURL); err != nil {
			logger.Warn("Failed to update %s: %v", oldURL, err)
			continue
		}
		logger.Info("Updated %s -> %s", oldURL, newURL)
		fixed++
	}

	if err := f.cache.Flush(); err != nil {
		return fixed, fmt.Errorf("flush link cache: %w", err)
	}
	return fixed, nil
}

// expand resolves one bare URL to its slugged form. Already-slugged
// URLs and URLs that do not look like /t/<topic>/<post> are left alone.
func (f *LinkFixer) expand(ctx context.Context, oldURL string) (string, bool) {
	_, tail, found := strings.Cut(oldURL, "/t/")
	if !found || strings.Contains(tail, "-") {
		// Slugged already, or not a topic URL.
		return "", false
	}

	parts := strings.Split(strings.Trim(oldURL, "/"), "/")
	if len(parts) < 2 {
		return "", false
	}
	topicID := parts[len(parts)-2]
	postNumber := parts[len(parts)-1]

	prefix, _, _ := strings.Cut(oldURL, "/t/")
	topicBase := fmt.Sprintf("%s/t/%s/1", prefix, topicID)

	expandedBase, ok := f.cache.Get(topicBase)
	if !ok {
		expandedFull, err := f.resolver.Resolve(ctx, topicBase)
		if err != nil {
			logger.Warn("Failed to expand %s: %v", topicBase, err)
			return "", false
		}
		idx := strings.LastIndex(expandedFull, "/")
		if idx < 0 {
			logger.Warn("Unexpected expansion for %s: %q", topicBase, expandedFull)
			return "", false
		}
		expandedBase = expandedFull[:idx]
		f.cache.Put(topicBase, expandedBase)
	}

	return fmt.Sprintf("%s/%s", expandedBase, postNumber), true
}
