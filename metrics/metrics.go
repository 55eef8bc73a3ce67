// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package metrics provides named counters whose values are kept per
// scope. A scope is typically attached to the context of one sort, so
// that concurrent sorts report independently.
package metrics

import "sync"

var (
	mu sync.Mutex
	// names holds the name of every registered counter by id. We
	// reserve index 0 so that zero-valued counters are never mistaken
	// for registered ones.
	names = []string{""}
)

// Counter is a monotonically increasing count, kept per Scope.
type Counter struct {
	id int
}

// NewCounter registers and returns a new counter with the given name.
// Counters are usually created once, at package initialization.
func NewCounter(name string) Counter {
	mu.Lock()
	defer mu.Unlock()
	names = append(names, name)
	return Counter{id: len(names) - 1}
}

// Name returns the counter's name.
func (c Counter) Name() string {
	mu.Lock()
	defer mu.Unlock()
	return names[c.id]
}

// Value returns the counter's value in scope.
func (c Counter) Value(scope *Scope) uint64 {
	if scope == nil {
		return 0
	}
	scope.mu.Lock()
	defer scope.mu.Unlock()
	return scope.values[c.id]
}

// Incr adds n to the counter in scope. Incr is a no-op on a nil scope.
func (c Counter) Incr(scope *Scope, n int) {
	if scope == nil || n == 0 {
		return
	}
	scope.mu.Lock()
	if scope.values == nil {
		scope.values = make(map[int]uint64)
	}
	scope.values[c.id] += uint64(n)
	scope.mu.Unlock()
}
