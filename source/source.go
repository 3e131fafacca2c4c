// Package source defines the domain models and interfaces for resolving video pages into playable media.
package source

import (
	"context"
	"net/url"
)

// Source defines the capabilities of a site-specific resolver.
type Source interface {
	// Name returns the human readable provider name.
	Name() string

	// ID returns the unique identifier of the source.
	ID() string

	// Match reports whether the source understands the page URL.
	Match(u *url.URL) bool

	// Resolve turns a video page URL into its playable media descriptor.
	Resolve(ctx context.Context, rawURL string) (*Result, error)
}

// VideoRef identifies a video by its public page id and backend id.
type VideoRef struct {
	// Public id taken from the page URL.
	PageID string `json:"page_id"`
	// Backend id embedded in the page script.
	InternalID string `json:"internal_id"`
	// UserChannel is set for videos uploaded to a personal channel.
	UserChannel bool `json:"user_channel"`
}

// WithInternalID returns a copy of the reference bound to the backend id.
func (r VideoRef) WithInternalID(id string) VideoRef {
	r.InternalID = id
	return r
}
