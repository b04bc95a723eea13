// Package artwork defines the artwork value type and the contract every
// artwork source (remote collection API, local catalog) implements.
package artwork

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Source errors. Sources wrap these so callers can classify with errors.Is.
var (
	// ErrNotFound means no artwork matches the filter.
	ErrNotFound = errors.New("artwork: no artworks match the filter")

	// ErrTransient means the source failed for a reason worth retrying
	// (network error, rate limiting, server error).
	ErrTransient = errors.New("artwork: transient source failure")

	// ErrMissingImage means the source could not find a matching artwork
	// with an image within its retry budget.
	ErrMissingImage = errors.New("artwork: no artwork with an image found")
)

// Artwork is an immutable description of a single collection object.
// Two artworks are the same object when their IDs are equal.
type Artwork struct {
	ID             string
	Title          string
	ImageURL       string
	ThumbnailURL   string // Smaller rendition, optional
	Artist         string
	Date           string // Free-form display date, e.g. "ca. 1665"
	BeginYear      int
	EndYear        int
	Medium         string
	Classification string
	Department     string
	Country        string
	Culture        string
	Period         string
	ObjectURL      string
}

// HasImage reports whether the artwork carries a usable image reference.
func (a Artwork) HasImage() bool {
	return strings.TrimSpace(a.ImageURL) != "" || strings.TrimSpace(a.ThumbnailURL) != ""
}

// PreferredImage returns the thumbnail when present, otherwise the full image.
func (a Artwork) PreferredImage() string {
	if a.ThumbnailURL != "" {
		return a.ThumbnailURL
	}
	return a.ImageURL
}

// ArtistOrUnknown returns the artist name or "Unknown artist".
func (a Artwork) ArtistOrUnknown() string {
	if strings.TrimSpace(a.Artist) == "" {
		return "Unknown artist"
	}
	return a.Artist
}

// Filter narrows the artworks a source may return.
// Zero values mean "no constraint".
type Filter struct {
	Difficulty string // Informational only, sources do not filter by it
	Medium     string
	Country    string
	YearStart  *int
	YearEnd    *int
}

// HasYearRange reports whether either year bound is set.
func (f Filter) HasYearRange() bool {
	return f.YearStart != nil || f.YearEnd != nil
}

// Key returns a stable string identifying the filter, suitable as a cache key.
// Difficulty is excluded since it never changes the result set.
func (f Filter) Key() string {
	var b strings.Builder
	b.WriteString("m=")
	b.WriteString(strings.ToLower(f.Medium))
	b.WriteString("|c=")
	b.WriteString(strings.ToLower(f.Country))
	b.WriteString("|ys=")
	if f.YearStart != nil {
		b.WriteString(strconv.Itoa(*f.YearStart))
	}
	b.WriteString("|ye=")
	if f.YearEnd != nil {
		b.WriteString(strconv.Itoa(*f.YearEnd))
	}
	return b.String()
}

// Source supplies artworks to the game engine.
type Source interface {
	// FetchRandomArtwork returns a random artwork with an image matching the filter.
	// Fails with ErrNotFound, ErrTransient or ErrMissingImage (wrapped).
	FetchRandomArtwork(ctx context.Context, filter Filter) (Artwork, error)

	// ListCategories returns category names in display order.
	ListCategories(ctx context.Context) ([]string, error)
}
