package feeds

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidFeedKey is returned by Resolve for keys absent from the
// registry. Resolution failure never triggers a fetch.
var ErrInvalidFeedKey = errors.New("invalid feed key")

// Registry is a static mapping from feed key to upstream source URL.
// The key set is fixed at construction; lookup is case-sensitive exact
// match.
type Registry struct {
	urls map[string]string
}

// NewRegistry copies the given mapping into an immutable registry.
func NewRegistry(urls map[string]string) *Registry {
	m := make(map[string]string, len(urls))
	for k, v := range urls {
		m[k] = v
	}
	return &Registry{urls: m}
}

// Resolve returns the source URL for a feed key, or an error wrapping
// ErrInvalidFeedKey for unknown keys.
func (r *Registry) Resolve(key string) (string, error) {
	url, ok := r.urls[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFeedKey, key)
	}
	return url, nil
}

// Keys returns the valid feed keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.urls))
	for k := range r.urls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
