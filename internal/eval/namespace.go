// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the dj evaluator.
package eval

import (
	"sort"
	"sync"

	"nickandperla.net/dj/internal/expr"
)

// Namespace is a thread-safe scope of dj bindings. Lookups fall through to
// the parent scope.
type Namespace struct {
	mu     sync.RWMutex
	store  map[string]expr.Expr
	parent *Namespace
}

// NewNamespace creates a new empty top-level namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		store: make(map[string]expr.Expr),
	}
}

// Child creates a new scope whose lookups fall back to n.
func (n *Namespace) Child() *Namespace {
	c := NewNamespace()
	c.parent = n
	return c
}

// Get retrieves a binding by name, searching enclosing scopes.
func (n *Namespace) Get(name string) (expr.Expr, bool) {
	for s := n; s != nil; s = s.parent {
		s.mu.RLock()
		e, ok := s.store[name]
		s.mu.RUnlock()
		if ok {
			return e, true
		}
	}
	return nil, false
}

// Set binds name in this scope.
func (n *Namespace) Set(name string, e expr.Expr) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store[name] = e
}

// Update rebinds name in the nearest scope that defines it. It returns false
// if no scope does.
func (n *Namespace) Update(name string, e expr.Expr) bool {
	for s := n; s != nil; s = s.parent {
		s.mu.Lock()
		_, ok := s.store[name]
		if ok {
			s.store[name] = e
		}
		s.mu.Unlock()
		if ok {
			return true
		}
	}
	return false
}

// Has returns true if the name is bound in this scope or an enclosing one.
func (n *Namespace) Has(name string) bool {
	_, ok := n.Get(name)
	return ok
}

// Delete removes a binding from this scope.
func (n *Namespace) Delete(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.store, name)
}

// Names returns the names bound in this scope, sorted.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.store))
	for k := range n.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
