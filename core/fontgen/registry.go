package fontgen

import (
	"sort"
	"strings"
	"sync"

	"github.com/gaurav-prasanna/iconfontify/core"
)

// Factory creates a synthesizer.
type Factory func(cfg Config) (Synthesizer, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a synthesizer available under name. It panics if factory is
// nil or name is taken, so mistakes surface during init.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("fontgen: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("fontgen: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a synthesizer. Tests use it to clean up.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Open creates the synthesizer registered as name. An unknown name is an
// environment error.
func Open(name string, cfg Config) (Synthesizer, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, core.Errorf(core.KindEnvironment, "fontgen",
			"choose one of: "+strings.Join(Synthesizers(), ", "),
			"unknown synthesizer %q", name)
	}
	return factory(cfg)
}

// Synthesizers returns the registered names, sorted.
func Synthesizers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
