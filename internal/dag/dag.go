// SPDX-License-Identifier: MPL-2.0

// Package dag provides a small dependency solver over opaque node identifiers.
// It is used twice during a bootstrap episode: once to order module
// initialization and once to order deferred module finalization.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel wrapped by every CycleError.
var ErrCycle = errors.New("dependency cycle detected")

type (
	// CycleError indicates that the dependency map contains at least one cycle.
	// Cycle is a witness path whose first and last element are the same node.
	CycleError[N comparable] struct {
		Cycle []N
	}

	// Solver tracks "from depends on to" edges between nodes.
	// A Solver is not safe for concurrent use; callers build a fresh one per solve.
	Solver[N comparable] struct {
		// deps maps each tracked node to its dependencies in insertion order.
		deps map[N]*orderedSet[N]
		// nodes tracks tracked nodes in insertion order for deterministic output.
		nodes []N
	}

	orderedSet[N comparable] struct {
		items []N
		index map[N]struct{}
	}
)

func (e *CycleError[N]) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), FormatPath(e.Cycle))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError[N]) Unwrap() error {
	return ErrCycle
}

// FormatPath renders a node path as "a -> b -> a".
func FormatPath[N comparable](path []N) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " -> ")
}

// New creates an empty Solver.
func New[N comparable]() *Solver[N] {
	return &Solver[N]{deps: make(map[N]*orderedSet[N])}
}

// AddNode registers n without any dependency so that it is part of the
// result set of Solve. Registering an already tracked node is a no-op.
func (s *Solver[N]) AddNode(n N) {
	if _, ok := s.deps[n]; ok {
		return
	}
	s.deps[n] = newOrderedSet[N]()
	s.nodes = append(s.nodes, n)
}

// AddDependency records that from depends on to. Duplicate edges are no-ops.
func (s *Solver[N]) AddDependency(from, to N) {
	s.AddNode(from)
	s.deps[from].add(to)
}

// RemoveDependency removes the edge from -> to if present.
func (s *Solver[N]) RemoveDependency(from, to N) {
	if set, ok := s.deps[from]; ok {
		set.remove(to)
	}
}

// DirectDependencies returns the nodes from directly depends on.
func (s *Solver[N]) DirectDependencies(from N) []N {
	set, ok := s.deps[from]
	if !ok {
		return nil
	}
	return set.slice()
}

// DirectDependents returns the tracked nodes that directly depend on n.
// Nodes that were never registered as a dependency source are untracked and
// have no dependents.
func (s *Solver[N]) DirectDependents(n N) []N {
	if _, ok := s.deps[n]; !ok {
		return nil
	}
	var res []N
	for _, other := range s.nodes {
		if other != n && s.deps[other].has(n) {
			res = append(res, other)
		}
	}
	return res
}

// HasDirectDependency reports whether the edge from -> to exists.
func (s *Solver[N]) HasDirectDependency(from, to N) bool {
	set, ok := s.deps[from]
	return ok && set.has(to)
}

// Nodes returns every tracked node and every node only referenced as a
// dependency, in first-seen order.
func (s *Solver[N]) Nodes() []N {
	seen := make(map[N]struct{}, len(s.nodes))
	var res []N
	visit := func(n N) {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			res = append(res, n)
		}
	}
	for _, n := range s.nodes {
		visit(n)
		for _, dep := range s.deps[n].items {
			visit(dep)
		}
	}
	return res
}

// Solve returns all nodes ordered so that every node appears after all the
// nodes it depends on. Nodes that become resolvable in the same pass keep
// their insertion order.
//
// When some nodes can never be resolved, Solve fails with a *CycleError that
// carries one witness cycle, even if other parts of the graph are acyclic.
func (s *Solver[N]) Solve() ([]N, error) {
	resolved := make(map[N]struct{}, len(s.nodes))
	var sorted []N
	markResolved := func(n N) {
		if _, ok := resolved[n]; !ok {
			resolved[n] = struct{}{}
			sorted = append(sorted, n)
		}
	}

	// Seed with dependency-only nodes and nodes without dependencies.
	for _, n := range s.nodes {
		for _, dep := range s.deps[n].items {
			if _, tracked := s.deps[dep]; !tracked {
				markResolved(dep)
			}
		}
	}
	pending := make(map[N][]N)
	var pendingOrder []N
	for _, n := range s.nodes {
		if s.deps[n].len() == 0 {
			markResolved(n)
			continue
		}
		pending[n] = s.deps[n].slice()
		pendingOrder = append(pendingOrder, n)
	}

	for updated := true; updated; {
		updated = false
		remaining := pendingOrder[:0]
		for _, n := range pendingOrder {
			unresolved := pending[n][:0]
			for _, dep := range pending[n] {
				if _, ok := resolved[dep]; !ok {
					unresolved = append(unresolved, dep)
				}
			}
			if len(unresolved) != len(pending[n]) {
				updated = true
			}
			if len(unresolved) == 0 {
				delete(pending, n)
				markResolved(n)
				continue
			}
			pending[n] = unresolved
			remaining = append(remaining, n)
		}
		pendingOrder = remaining
	}

	if len(pendingOrder) > 0 {
		return nil, &CycleError[N]{Cycle: walkCycle(pendingOrder[0], func(n N) N { return pending[n][0] })}
	}
	return sorted, nil
}

// Cycles returns one witness cycle for every strongly connected component of
// the graph that contains a cycle. Components are reported in the insertion
// order of their first node.
func (s *Solver[N]) Cycles() [][]N {
	var (
		index   = make(map[N]int)
		lowlink = make(map[N]int)
		onStack = make(map[N]bool)
		stack   []N
		next    int
		comps   [][]N
	)

	var connect func(n N)
	connect = func(n N) {
		index[n] = next
		lowlink[n] = next
		next++
		stack = append(stack, n)
		onStack[n] = true

		for _, dep := range s.DirectDependencies(n) {
			if _, seen := index[dep]; !seen {
				connect(dep)
				lowlink[n] = min(lowlink[n], lowlink[dep])
			} else if onStack[dep] {
				lowlink[n] = min(lowlink[n], index[dep])
			}
		}

		if lowlink[n] != index[n] {
			return
		}
		var comp []N
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			comp = append(comp, top)
			if top == n {
				break
			}
		}
		comps = append(comps, comp)
	}

	for _, n := range s.nodes {
		if _, seen := index[n]; !seen {
			connect(n)
		}
	}

	position := make(map[N]int, len(s.nodes))
	for i, n := range s.Nodes() {
		position[n] = i
	}

	var cycles [][]N
	for _, comp := range comps {
		if len(comp) == 1 && !s.HasDirectDependency(comp[0], comp[0]) {
			continue
		}
		members := make(map[N]bool, len(comp))
		start := comp[0]
		for _, n := range comp {
			members[n] = true
			if position[n] < position[start] {
				start = n
			}
		}
		cycles = append(cycles, walkCycle(start, func(n N) N {
			for _, dep := range s.deps[n].items {
				if members[dep] {
					return dep
				}
			}
			panic("dag: strongly connected component without internal edge")
		}))
	}

	// Tarjan emits components in reverse topological order; report them by
	// the position of their first node instead.
	for i := 1; i < len(cycles); i++ {
		for j := i; j > 0 && position[cycles[j][0]] < position[cycles[j-1][0]]; j-- {
			cycles[j], cycles[j-1] = cycles[j-1], cycles[j]
		}
	}
	return cycles
}

// walkCycle follows next from start until a node repeats and returns the
// closed loop, dropping any lead-in before the repeated node.
func walkCycle[N comparable](start N, next func(N) N) []N {
	path := []N{start}
	seenAt := map[N]int{start: 0}
	for {
		n := next(path[len(path)-1])
		if i, ok := seenAt[n]; ok {
			return append(path[i:], n)
		}
		seenAt[n] = len(path)
		path = append(path, n)
	}
}

func newOrderedSet[N comparable]() *orderedSet[N] {
	return &orderedSet[N]{index: make(map[N]struct{})}
}

func (o *orderedSet[N]) add(n N) {
	if _, ok := o.index[n]; ok {
		return
	}
	o.index[n] = struct{}{}
	o.items = append(o.items, n)
}

func (o *orderedSet[N]) remove(n N) {
	if _, ok := o.index[n]; !ok {
		return
	}
	delete(o.index, n)
	for i, item := range o.items {
		if item == n {
			o.items = append(o.items[:i], o.items[i+1:]...)
			return
		}
	}
}

func (o *orderedSet[N]) has(n N) bool {
	_, ok := o.index[n]
	return ok
}

func (o *orderedSet[N]) len() int {
	return len(o.items)
}

func (o *orderedSet[N]) slice() []N {
	if len(o.items) == 0 {
		return nil
	}
	return append([]N(nil), o.items...)
}
