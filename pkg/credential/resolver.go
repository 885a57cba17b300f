// Package credential resolves the pre-shared bypass token that exempts
// a caller from the payment protocol entirely. Presence of a token
// suppresses the whole 402 challenge flow; the two payment modes never
// mix.
package credential

import (
	"errors"
	"net/url"
	"sync"
)

const (
	// QueryParam is the inbound URL query parameter carrying the token.
	QueryParam = "stellar"

	// StorageKey is the session storage key for the token.
	StorageKey = "stellarToken"
)

// Token is an opaque pre-shared bypass credential.
type Token string

// Resolver finds the bypass credential, checking an inbound set of URL
// query values first and falling back to the session store. A token
// found in the query values is persisted to the store on first
// resolution. Resolution is pure local-state lookup; no network calls.
type Resolver struct {
	store  Store
	params url.Values

	mu       sync.RWMutex
	cached   Token
	resolved bool
}

// NewResolver creates a resolver over a session store. params may be
// nil when there is no inbound URL to inspect.
func NewResolver(store Store, params url.Values) *Resolver {
	return &Resolver{
		store:  store,
		params: params,
	}
}

// Resolve returns the bypass token and true when one is available.
// The result is cached process-wide after the first call.
func (r *Resolver) Resolve() (Token, bool) {
	r.mu.RLock()
	if r.resolved {
		defer r.mu.RUnlock()
		return r.cached, r.cached != ""
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.cached, r.cached != ""
	}

	if value := r.params.Get(QueryParam); value != "" {
		// Persist for the rest of the session; a failed write still
		// leaves the in-memory token usable.
		_ = r.store.Set(StorageKey, value)
		r.cached = Token(value)
		r.resolved = true
		return r.cached, true
	}

	value, err := r.store.Get(StorageKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", false
	}
	r.cached = Token(value)
	r.resolved = true
	return r.cached, r.cached != ""
}

// Active reports whether a bypass credential is available. Callers use
// this to decide whether to surface payment UI at all.
func (r *Resolver) Active() bool {
	_, ok := r.Resolve()
	return ok
}

// Clear removes any persisted bypass credential and drops the cache.
func (r *Resolver) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cached = ""
	r.resolved = false
	return r.store.Delete(StorageKey)
}
