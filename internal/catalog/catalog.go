// Package catalog is an offline artwork source that reads artworks from a
// YAML file. It serves play without network access and deterministic tests.
package catalog

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
	"github.com/vovakirdan/guess-the-met/internal/config"
	"github.com/vovakirdan/guess-the-met/internal/registry"
)

func init() {
	registry.Register("catalog", "Local YAML catalog", func(cfg config.Config, logger *log.Logger) (artwork.Source, error) {
		if cfg.Source.Catalog.Path == "" {
			return nil, fmt.Errorf("catalog: no catalog path configured")
		}
		opts := []Option{WithLogger(logger)}
		if cfg.Source.Catalog.Seed != 0 {
			opts = append(opts, WithSeed(cfg.Source.Catalog.Seed))
		}
		return Load(cfg.Source.Catalog.Path, opts...)
	})
}

// File is the on-disk catalog layout.
type File struct {
	Artworks []Entry `yaml:"artworks"`
}

// Entry is one artwork in a catalog file.
type Entry struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title"`
	ImageURL       string `yaml:"image_url"`
	ThumbnailURL   string `yaml:"thumbnail_url"`
	Artist         string `yaml:"artist"`
	Date           string `yaml:"date"`
	BeginYear      int    `yaml:"begin_year"`
	EndYear        int    `yaml:"end_year"`
	Medium         string `yaml:"medium"`
	Classification string `yaml:"classification"`
	Department     string `yaml:"department"`
	Country        string `yaml:"country"`
	Culture        string `yaml:"culture"`
	Period         string `yaml:"period"`
	ObjectURL      string `yaml:"object_url"`
}

func (e Entry) artwork() artwork.Artwork {
	return artwork.Artwork{
		ID:             e.ID,
		Title:          e.Title,
		ImageURL:       e.ImageURL,
		ThumbnailURL:   e.ThumbnailURL,
		Artist:         e.Artist,
		Date:           e.Date,
		BeginYear:      e.BeginYear,
		EndYear:        e.EndYear,
		Medium:         e.Medium,
		Classification: e.Classification,
		Department:     e.Department,
		Country:        e.Country,
		Culture:        e.Culture,
		Period:         e.Period,
		ObjectURL:      e.ObjectURL,
	}
}

// Source picks random artworks from an in-memory catalog.
type Source struct {
	artworks []artwork.Artwork
	logger   *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Source.
type Option func(*Source)

// WithSeed makes the random picks reproducible.
func WithSeed(seed int64) Option {
	return func(s *Source) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the source logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// Load reads a catalog file.
func Load(path string, opts ...Option) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read %s: %w", path, err)
	}
	s, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	s.logger.Info("catalog loaded", "path", path, "artworks", s.Len())
	return s, nil
}

// Parse decodes catalog YAML. Entry IDs must be present and unique.
func Parse(data []byte, opts ...Option) (*Source, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	arts := make([]artwork.Artwork, 0, len(f.Artworks))
	seen := make(map[string]bool, len(f.Artworks))
	for i, e := range f.Artworks {
		if e.ID == "" {
			return nil, fmt.Errorf("artwork #%d has no id", i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate artwork id %q", e.ID)
		}
		seen[e.ID] = true
		arts = append(arts, e.artwork())
	}
	return New(arts, opts...), nil
}

// New creates a source over the given artworks.
func New(arts []artwork.Artwork, opts ...Option) *Source {
	s := &Source{
		artworks: arts,
		logger:   log.New(io.Discard),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of artworks in the catalog.
func (s *Source) Len() int {
	return len(s.artworks)
}

// FetchRandomArtwork returns a random artwork with an image matching f.
func (s *Source) FetchRandomArtwork(ctx context.Context, f artwork.Filter) (artwork.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return artwork.Artwork{}, err
	}
	matches := s.Matching(f)
	if len(matches) == 0 {
		return artwork.Artwork{}, fmt.Errorf("catalog: filter %s: %w", f.Key(), artwork.ErrNotFound)
	}

	s.mu.Lock()
	i := s.rng.Intn(len(matches))
	s.mu.Unlock()
	return matches[i], nil
}

// Matching returns every artwork with an image that satisfies f.
func (s *Source) Matching(f artwork.Filter) []artwork.Artwork {
	var out []artwork.Artwork
	for _, a := range s.artworks {
		if a.HasImage() && matches(a, f) {
			out = append(out, a)
		}
	}
	return out
}

// ListCategories returns the distinct departments, sorted.
func (s *Source) ListCategories(ctx context.Context) ([]string, error) {
	set := make(map[string]struct{})
	for _, a := range s.artworks {
		if a.Department != "" {
			set[a.Department] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func matches(a artwork.Artwork, f artwork.Filter) bool {
	if f.Medium != "" && !containsFold(f.Medium, a.Medium, a.Classification) {
		return false
	}
	if f.Country != "" && !containsFold(f.Country, a.Country, a.Culture) {
		return false
	}
	if f.HasYearRange() {
		if a.BeginYear == 0 && a.EndYear == 0 {
			return false
		}
		begin, end := a.BeginYear, a.EndYear
		if end < begin {
			end = begin
		}
		if f.YearStart != nil && end < *f.YearStart {
			return false
		}
		if f.YearEnd != nil && begin > *f.YearEnd {
			return false
		}
	}
	return true
}

// containsFold reports whether any field contains needle, ignoring case.
func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
