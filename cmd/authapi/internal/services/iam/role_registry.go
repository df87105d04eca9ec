package iam

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
)

const roleNamesKey = "roles"

// RoleNameSource lists the role names currently known to the system.
type RoleNameSource interface {
	RoleNames(ctx context.Context) ([]string, error)
}

// RoleRegistry is the live set of role names, read from the role store.
//
// With a positive TTL the names are cached in an expiring LRU; every role
// mutation made through this process calls Invalidate. Mutations made by
// another process become visible after at most one TTL. A zero TTL reads
// the store on every call.
type RoleRegistry struct {
	roles repository.RoleRepository
	cache *expirable.LRU[string, []string]

	// generation counts Invalidate calls. A store read only fills the cache
	// if no Invalidate happened while it was in flight.
	mu         sync.Mutex
	generation uint64
}

func NewRoleRegistry(roles repository.RoleRepository, ttl time.Duration) *RoleRegistry {
	r := &RoleRegistry{roles: roles}
	if ttl > 0 {
		r.cache = expirable.NewLRU[string, []string](1, nil, ttl)
	}
	return r
}

// RoleNames returns the current role names. Store errors are returned as-is;
// an empty result is never substituted for a failed read.
func (r *RoleRegistry) RoleNames(ctx context.Context) ([]string, error) {
	if r.cache != nil {
		if names, ok := r.cache.Get(roleNamesKey); ok {
			return slices.Clone(names), nil
		}
	}

	gen := r.currentGeneration()
	names, err := r.roles.Names(ctx)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.mu.Lock()
		if r.generation == gen {
			r.cache.Add(roleNamesKey, slices.Clone(names))
		}
		r.mu.Unlock()
	}
	return names, nil
}

// Invalidate drops cached names so the next read hits the store. Reads
// already in flight do not repopulate the cache.
func (r *RoleRegistry) Invalidate() {
	if r.cache == nil {
		return
	}
	r.mu.Lock()
	r.generation++
	r.cache.Purge()
	r.mu.Unlock()
}

func (r *RoleRegistry) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Cached reports whether role names are currently served from cache.
func (r *RoleRegistry) Cached() bool {
	if r.cache == nil {
		return false
	}
	_, ok := r.cache.Peek(roleNamesKey)
	return ok
}
