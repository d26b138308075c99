// Package roster supplies the initial competitors for a league.
//
// Generators are looked up by name in a Registry that is populated when the program starts,
// so the set of roster sources is fixed at build time
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/justinjudd/league/models"
)

// ErrUnknownGenerator is returned when no generator is registered under a name
var ErrUnknownGenerator = errors.New("unknown roster generator")

// Generator produces a roster of competitors
type Generator interface {
	Generate(ctx context.Context) ([]models.Competitor, error)
}

// Options configures a generator when it is constructed
type Options struct {
	CacheDir string // Where generators that read from disk find their files
	Seed     int64
	Count    int // Maximum number of competitors, zero means no limit where a generator supports it
}

// Constructor builds a generator from options
type Constructor func(opts Options) (Generator, error)

// Registry maps generator names to their constructors
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry creates a registry holding the built in generators
func NewRegistry() *Registry {
	r := &Registry{constructors: map[string]Constructor{}}
	r.constructors["synthetic"] = func(opts Options) (Generator, error) {
		return NewSynthetic(opts.Seed, opts.Count)
	}
	r.constructors["html"] = func(opts Options) (Generator, error) {
		return NewHTML(opts.CacheDir, opts.Count), nil
	}
	return r
}

// Register adds a constructor under name. Names can't be registered twice
func (r *Registry) Register(name string, c Constructor) error {
	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("roster generator %q already registered", name)
	}
	if c == nil {
		return fmt.Errorf("roster generator %q has no constructor", name)
	}
	r.constructors[name] = c
	return nil
}

// New builds the generator registered under name
func (r *Registry) New(name string, opts Options) (Generator, error) {
	c, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownGenerator)
	}
	return c(opts)
}

// Names lists every registered generator, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
