// Package streamregistry tracks the current externally reported video
// stream endpoint. The upstream URL is an ephemeral tunnel endpoint that
// rotates unpredictably, so reads carry a freshness check: consumers fail
// fast on a stale value instead of silently using a dead endpoint.
package streamregistry

import (
	"strings"
	"sync"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/errors"
	"github.com/faunawatch/faunawatch-go/internal/model"
)

// SecureSchemePrefix is the only accepted URL scheme prefix.
const SecureSchemePrefix = "https://"

// Sentinel errors for registry reads and writes.
var (
	ErrInvalidURL = errors.Newf("stream url must start with %s", SecureSchemePrefix).Component("streamregistry").Category(errors.CategoryValidation).Build()
	ErrNotSet     = errors.Newf("stream url has never been set").Component("streamregistry").Category(errors.CategoryNotFound).Build()
	ErrExpired    = errors.Newf("stream url has expired").Component("streamregistry").Category(errors.CategoryExpired).Build()
)

// Registry is the single-slot store for the current stream endpoint.
type Registry struct {
	mu       sync.RWMutex
	endpoint *model.StreamEndpoint
	ttl      time.Duration
	clock    func() time.Time
}

// New creates a registry with the given freshness window.
func New(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Registry{ttl: ttl, clock: time.Now}
}

// SetClock overrides the time source, used by tests to advance the clock.
func (r *Registry) SetClock(clock func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
}

// Set validates and overwrites the current endpoint. Only https URLs are
// accepted; anything else returns ErrInvalidURL and leaves the registry
// unchanged.
func (r *Registry) Set(url string) (*model.StreamEndpoint, error) {
	if !strings.HasPrefix(url, SecureSchemePrefix) {
		return nil, ErrInvalidURL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.endpoint = &model.StreamEndpoint{URL: url, LastUpdate: r.clock()}
	endpointCopy := *r.endpoint
	return &endpointCopy, nil
}

// Get returns the current endpoint. ErrNotSet is returned when no value
// has ever been written; ErrExpired when the value is older than the TTL.
// An expired value is retained, so a later fresh Set resets the window.
func (r *Registry) Get() (*model.StreamEndpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.endpoint == nil {
		return nil, ErrNotSet
	}
	if r.clock().Sub(r.endpoint.LastUpdate) > r.ttl {
		return nil, ErrExpired
	}

	endpointCopy := *r.endpoint
	return &endpointCopy, nil
}
