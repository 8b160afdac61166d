package platform

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]*Adapter)
	mu       sync.RWMutex
)

func Register(adapter *Adapter) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(adapter.Name())] = adapter
}

func Get(name string) (*Adapter, error) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("platform %q not registered", name)
	}
	return a, nil
}

// List returns registered platform names in stable order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps requested platform names to adapters. An empty list or the
// single entry "all" means every registered platform.
func Resolve(names []string) ([]*Adapter, error) {
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(names[0], "all")) {
		names = List()
	}
	adapters := make([]*Adapter, 0, len(names))
	for _, name := range names {
		a, err := Get(name)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// Reset drops all registrations. Test hook.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]*Adapter)
}
