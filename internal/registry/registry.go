// Package registry provides a global registry for artwork source factories.
// Sources register themselves in init() functions, allowing the CLI
// to pick one by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
	"github.com/vovakirdan/guess-the-met/internal/config"
)

// SourceInfo contains metadata about a registered source.
type SourceInfo struct {
	ID    string
	Title string
}

// Factory creates a source from the loaded configuration.
type Factory func(cfg config.Config, logger *log.Logger) (artwork.Source, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a source factory to the registry.
// Typically called from a source package's init() function.
// Panics if a source with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: source %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered sources, sorted by ID.
func List() []SourceInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SourceInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SourceInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a source by its ID.
// Returns an error if the ID is not registered or the factory fails.
func Create(id string, cfg config.Config, logger *log.Logger) (artwork.Source, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown source %q", id)
	}

	src, err := f(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("registry: create %s: %w", id, err)
	}
	return src, nil
}

// Exists checks if a source with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
