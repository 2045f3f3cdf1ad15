package cache

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/CYule/vibe-gallery/internal/config"
	"github.com/CYule/vibe-gallery/internal/database"
)

// Cache key prefixes.
const (
	HomeCachePrefix    = "home-"
	ProfileCachePrefix = "profile-"

	homeKey = "projects"
)

// ProfileEntry is the cached state of a profile page, keyed by username.
type ProfileEntry struct {
	User     database.User              `json:"user"`
	Projects []database.ProjectListItem `json:"projects"`
}

// PageCache caches the data behind the rendered pages. Anything that
// mutates projects, likes or profiles invalidates the affected keys so
// subsequent reads reflect the change immediately.
type PageCache struct {
	Home     *PrefixedCache[[]database.ProjectListItem]
	Profiles *PrefixedCache[ProfileEntry]
}

func NewPageCache(cfg *config.CacheConfig) *PageCache {
	return &PageCache{
		Home:     NewPrefixedCache[[]database.ProjectListItem](NewCacheInstance(cfg), HomeCachePrefix),
		Profiles: NewPrefixedCache[ProfileEntry](NewCacheInstance(cfg), ProfileCachePrefix),
	}
}

// GetHome returns the cached home listing, or false when not cached.
func (p *PageCache) GetHome(ctx context.Context) ([]database.ProjectListItem, bool) {
	items, err := p.Home.Get(ctx, homeKey)
	if err != nil {
		return nil, false
	}
	return items, true
}

func (p *PageCache) SetHome(ctx context.Context, items []database.ProjectListItem) {
	if err := p.Home.Set(ctx, homeKey, items); err != nil {
		log.Warn("failed to cache home listing", "error", err)
	}
}

// GetProfile returns the cached profile for a username, or false when not cached.
func (p *PageCache) GetProfile(ctx context.Context, username string) (ProfileEntry, bool) {
	entry, err := p.Profiles.Get(ctx, username)
	if err != nil {
		return ProfileEntry{}, false
	}
	return entry, true
}

func (p *PageCache) SetProfile(ctx context.Context, username string, entry ProfileEntry) {
	if err := p.Profiles.Set(ctx, username, entry); err != nil {
		log.Warn("failed to cache profile", "username", username, "error", err)
	}
}

// InvalidateHome drops the cached home listing.
func (p *PageCache) InvalidateHome(ctx context.Context) {
	if err := p.Home.Delete(ctx, homeKey); err != nil {
		log.Debug("failed to invalidate home cache", "error", err)
	}
}

// InvalidateProfiles drops the cached profiles for the given usernames.
// The claim transaction touches up to two of them: the ghost's old username
// and the merged account's username.
func (p *PageCache) InvalidateProfiles(ctx context.Context, usernames ...string) {
	for _, username := range usernames {
		if username == "" {
			continue
		}
		if err := p.Profiles.Delete(ctx, username); err != nil {
			log.Debug("failed to invalidate profile cache", "username", username, "error", err)
		}
	}
}
