package feed

import "fmt"

// Constructor is a function that creates a new Feed instance.
type Constructor func() Feed

var registry = map[string]Constructor{}

// Register adds a feed constructor under the given provider name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the feed constructor for the given provider name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown feed provider: %s", name)
	}
	return ctor, nil
}

// Providers returns the names of all registered feed providers.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
