package eigen

import (
	"fmt"
	"sort"
	"sync"
)

// EngineFactory creates Scanners around named determinant engines. It allows
// the CLI, the orchestration layer and the HTTP service to share one registry
// while tests inject their own.
type EngineFactory interface {
	// Create returns a fresh Scanner for the named engine.
	Create(name string) (Scanner, error)

	// Get returns the cached Scanner for the named engine.
	Get(name string) (Scanner, error)

	// List returns the registered engine names in sorted order.
	List() []string

	// Register adds or replaces an engine.
	Register(name string, creator func() DeterminantEngine) error

	// GetAll returns every registered Scanner keyed by engine name.
	GetAll() map[string]Scanner
}

// DefaultFactory is a thread-safe EngineFactory that caches one Scanner per
// engine name.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() DeterminantEngine
	scanners map[string]Scanner
}

// NewDefaultFactory returns a factory with the built-in engines registered:
//   - "bareiss": fraction-free elimination over math/big
//   - "cofactor": Laplace expansion, order <= MaxCofactorOrder
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() DeterminantEngine),
		scanners: make(map[string]Scanner),
	}
	_ = f.Register("bareiss", func() DeterminantEngine { return BareissEngine{} })
	_ = f.Register("cofactor", func() DeterminantEngine { return CofactorEngine{} })
	return f
}

// Register adds an engine. Replacing an existing name drops its cached Scanner.
func (f *DefaultFactory) Register(name string, creator func() DeterminantEngine) error {
	if name == "" || creator == nil {
		return fmt.Errorf("eigen: invalid registration for %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.scanners, name)
	return nil
}

// Create returns a new, uncached Scanner.
func (f *DefaultFactory) Create(name string) (Scanner, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
	}
	return NewScanner(creator()), nil
}

// Get returns the cached Scanner for name, creating it on first use.
//
// Parameters:
//   - name: The registered engine name.
//
// Returns:
//   - Scanner: The Scanner instance.
//   - error: ErrUnknownEngine if the name is not registered.
func (f *DefaultFactory) Get(name string) (Scanner, error) {
	f.mu.RLock()
	if s, ok := f.scanners[name]; ok {
		f.mu.RUnlock()
		return s, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.scanners[name]; ok {
		return s, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
	}
	s := NewScanner(creator())
	f.scanners[name] = s
	return s, nil
}

// List returns the registered engine names, sorted.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll initializes every registered engine and returns a copy of the cache.
func (f *DefaultFactory) GetAll() map[string]Scanner {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, creator := range f.creators {
		if _, ok := f.scanners[name]; !ok {
			f.scanners[name] = NewScanner(creator())
		}
	}
	out := make(map[string]Scanner, len(f.scanners))
	for name, s := range f.scanners {
		out[name] = s
	}
	return out
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory. Build-tagged engines such as
// "gmp" register themselves here from init.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterEngine registers an engine in the global factory.
func RegisterEngine(name string, creator func() DeterminantEngine) error {
	return globalFactory.Register(name, creator)
}
