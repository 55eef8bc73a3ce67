// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"sort"
	"sync"
)

// Scope is a collection of counter values. The zero Scope is empty
// and ready to use.
type Scope struct {
	mu     sync.Mutex
	values map[int]uint64
}

// Merge adds the values of scope u into scope s.
func (s *Scope) Merge(u *Scope) {
	if u == nil || u == s {
		return
	}
	u.mu.Lock()
	values := make(map[int]uint64, len(u.values))
	for id, v := range u.values {
		values[id] = v
	}
	u.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[int]uint64)
	}
	for id, v := range values {
		s.values[id] += v
	}
}

// Reset resets every value in the scope to zero.
func (s *Scope) Reset() {
	s.mu.Lock()
	s.values = nil
	s.mu.Unlock()
}

// Each calls fn with the name and value of every counter that has been
// incremented in the scope, in name order.
func (s *Scope) Each(fn func(name string, value uint64)) {
	s.mu.Lock()
	type entry struct {
		name  string
		value uint64
	}
	entries := make([]entry, 0, len(s.values))
	for id, v := range s.values {
		entries = append(entries, entry{Counter{id}.Name(), v})
	}
	s.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	for _, e := range entries {
		fn(e.name, e.value)
	}
}

// contextKeyType is used to create unique context key for scopes,
// available only to code in this package.
type contextKeyType struct{}

// contextKey is the key used to attach scopes to contexts.
var contextKey contextKeyType

// ScopedContext returns a context with the provided scope attached.
// The scope may be retrieved by ContextScope.
func ScopedContext(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, contextKey, scope)
}

// ContextScope returns the scope attached to the provided context, or
// nil if there is none. Counters ignore increments on a nil scope.
func ContextScope(ctx context.Context) *Scope {
	s, _ := ctx.Value(contextKey).(*Scope)
	return s
}
