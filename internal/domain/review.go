package domain

import "time"

// MediaType identifies what kind of media a review is about. The meaning of
// MediaURL and MediaConfig depends on this value.
type MediaType string

const (
	MediaTypeVideo        MediaType = "VIDEO"
	MediaTypeSpotify      MediaType = "SPOTIFY"
	MediaTypeImage        MediaType = "IMAGE"
	MediaTypeText         MediaType = "TEXT"
	MediaTypeExternalLink MediaType = "EXTERNAL_LINK"
)

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeVideo, MediaTypeSpotify, MediaTypeImage, MediaTypeText, MediaTypeExternalLink:
		return true
	}
	return false
}

// MetaField is one ordered label/value pair attached to a review
// (e.g. "Director" / "Denis Villeneuve").
type MetaField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Review is a single piece of authored content about a media item.
// A review belongs to exactly one tab and transitively to that tab's owner.
// PublishedAt == nil means draft: visible only to the owner.
type Review struct {
	ID          string         `json:"id"`
	TabID       string         `json:"tab_id"`
	OwnerID     string         `json:"owner_id"` // denormalized from the tab on load
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"` // markdown, rendered client-side
	Author      string         `json:"author,omitempty"`
	MediaType   MediaType      `json:"media_type"`
	MediaURL    string         `json:"media_url,omitempty"`
	MediaConfig map[string]any `json:"media_config,omitempty"`
	SortOrder   int            `json:"sort_order"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	MetaFields  []MetaField    `json:"meta_fields,omitempty"`
	CategoryIDs []string       `json:"category_ids,omitempty"`
	RelatedIDs  []string       `json:"related_ids,omitempty"` // ordered, directional
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsPublished reports whether the review is visible to non-owners.
func (r *Review) IsPublished() bool {
	return r.PublishedAt != nil
}

// VisibleTo reports whether the review may be seen by the given caller.
// Published reviews are visible to everyone including anonymous callers
// (empty callerID); drafts only to their owner.
func (r *Review) VisibleTo(callerID string) bool {
	return r.IsPublished() || (callerID != "" && callerID == r.OwnerID)
}
