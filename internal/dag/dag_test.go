// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

// assertOrdered fails the test unless every node in order appears after all of
// its dependencies in s.
func assertOrdered(t *testing.T, s *Solver[string], order []string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, n := range order {
		if _, dup := pos[n]; dup {
			t.Fatalf("node %q appears twice in %v", n, order)
		}
		pos[n] = i
	}
	for _, n := range s.Nodes() {
		if _, ok := pos[n]; !ok {
			t.Fatalf("node %q missing from %v", n, order)
		}
		for _, dep := range s.DirectDependencies(n) {
			if pos[dep] >= pos[n] {
				t.Errorf("%q (idx %d) must come after its dependency %q (idx %d) in %v", n, pos[n], dep, pos[dep], order)
			}
		}
	}
	if len(order) != len(s.Nodes()) {
		t.Errorf("expected %d nodes, got %d: %v", len(s.Nodes()), len(order), order)
	}
}

// assertIsCycle fails the test unless path is a closed walk over edges of s.
func assertIsCycle(t *testing.T, s *Solver[string], path []string) {
	t.Helper()
	if len(path) < 2 {
		t.Fatalf("cycle too short: %v", path)
	}
	if path[0] != path[len(path)-1] {
		t.Fatalf("cycle %v does not end where it starts", path)
	}
	for i := 0; i < len(path)-1; i++ {
		if !s.HasDirectDependency(path[i], path[i+1]) {
			t.Errorf("cycle %v uses missing edge %s -> %s", path, path[i], path[i+1])
		}
	}
}

func TestSolve_EmptySolver(t *testing.T) {
	t.Parallel()
	order, err := New[string]().Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected empty order, got %v", order)
	}
}

func TestSolve_SingleNode(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddNode("a")
	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"a"}) {
		t.Errorf("expected [a], got %v", order)
	}
}

func TestSolve_LinearChain(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "b")
	s.AddDependency("b", "c")

	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"c", "b", "a"}) {
		t.Errorf("expected [c b a], got %v", order)
	}
}

func TestSolve_Diamond(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("d", "b")
	s.AddDependency("d", "c")
	s.AddDependency("b", "a")
	s.AddDependency("c", "a")
	s.AddNode("a")

	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrdered(t, s, order)
	if order[0] != "a" || order[len(order)-1] != "d" {
		t.Errorf("expected a first and d last, got %v", order)
	}
}

func TestSolve_DependencyOnlyNodesIncluded(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("app", "db")
	s.AddDependency("app", "cache")

	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrdered(t, s, order)
	if !slices.Contains(order, "db") || !slices.Contains(order, "cache") {
		t.Errorf("dependency-only nodes missing from %v", order)
	}
}

func TestSolve_AcyclicGraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		nodes []string
	}{
		{name: "disconnected", edges: [][2]string{{"a", "b"}}, nodes: []string{"c", "d"}},
		{name: "wide fan-in", edges: [][2]string{{"x", "a"}, {"x", "b"}, {"x", "c"}, {"y", "x"}, {"z", "a"}}},
		{name: "reverse insertion", edges: [][2]string{{"e", "d"}, {"d", "c"}, {"c", "b"}, {"b", "a"}}},
		{name: "shared deep dependency", edges: [][2]string{{"top", "mid1"}, {"top", "mid2"}, {"mid1", "base"}, {"mid2", "mid1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New[string]()
			for _, n := range tt.nodes {
				s.AddNode(n)
			}
			for _, e := range tt.edges {
				s.AddDependency(e[0], e[1])
			}
			order, err := s.Solve()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertOrdered(t, s, order)
		})
	}
}

func TestSolve_DuplicateEdges(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "b")
	s.AddDependency("a", "b")

	if deps := s.DirectDependencies("a"); !slices.Equal(deps, []string{"b"}) {
		t.Errorf("expected [b], got %v", deps)
	}
	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"b", "a"}) {
		t.Errorf("expected [b a], got %v", order)
	}
}

func TestSolve_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
	}{
		{name: "self loop", edges: [][2]string{{"a", "a"}}},
		{name: "two nodes", edges: [][2]string{{"a", "b"}, {"b", "a"}}},
		{name: "three nodes", edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}},
		{name: "lead-in before loop", edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}}},
		{name: "partially cyclic", edges: [][2]string{{"ok", "base"}, {"x", "y"}, {"y", "x"}, {"z", "ok"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New[string]()
			for _, e := range tt.edges {
				s.AddDependency(e[0], e[1])
			}
			order, err := s.Solve()
			if err == nil {
				t.Fatalf("expected cycle error, got order %v", order)
			}
			if !errors.Is(err, ErrCycle) {
				t.Errorf("expected errors.Is(err, ErrCycle), got %v", err)
			}
			var cycleErr *CycleError[string]
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			assertIsCycle(t, s, cycleErr.Cycle)
		})
	}
}

func TestRemoveDependency(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "c")

	before := s.DirectDependencies("a")
	s.AddDependency("a", "b")
	s.RemoveDependency("a", "b")

	if got := s.DirectDependencies("a"); !slices.Equal(got, before) {
		t.Errorf("expected %v after add+remove, got %v", before, got)
	}
	if s.HasDirectDependency("a", "b") {
		t.Error("edge a -> b should be gone")
	}
	if got := s.DirectDependents("b"); len(got) != 0 {
		t.Errorf("expected no dependents of b, got %v", got)
	}

	// Removing unknown edges is a no-op.
	s.RemoveDependency("a", "zzz")
	s.RemoveDependency("zzz", "a")
	if got := s.DirectDependencies("a"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("expected [c], got %v", got)
	}
}

func TestRemoveDependency_BreaksCycle(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "b")
	s.AddDependency("b", "a")
	s.RemoveDependency("b", "a")

	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"b", "a"}) {
		t.Errorf("expected [b a], got %v", order)
	}
}

func TestDirectQueries(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("pf", "k8s")
	s.AddDependency("mcp1", "pf")
	s.AddDependency("mcp2", "pf")
	s.AddDependency("mcp2", "k8s")
	s.AddNode("k8s")

	tests := []struct {
		node       string
		deps       []string
		dependents []string
	}{
		{node: "k8s", deps: nil, dependents: []string{"pf", "mcp2"}},
		{node: "pf", deps: []string{"k8s"}, dependents: []string{"mcp1", "mcp2"}},
		{node: "mcp2", deps: []string{"pf", "k8s"}, dependents: nil},
		{node: "unknown", deps: nil, dependents: nil},
	}

	for _, tt := range tests {
		t.Run(tt.node, func(t *testing.T) {
			t.Parallel()
			for range 3 {
				if got := s.DirectDependencies(tt.node); !slices.Equal(got, tt.deps) {
					t.Errorf("DirectDependencies(%q) = %v, want %v", tt.node, got, tt.deps)
				}
				if got := s.DirectDependents(tt.node); !slices.Equal(got, tt.dependents) {
					t.Errorf("DirectDependents(%q) = %v, want %v", tt.node, got, tt.dependents)
				}
			}
		})
	}
}

func TestDirectDependents_UntrackedNode(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "b")

	// b is only referenced as a dependency, so it is not tracked.
	if got := s.DirectDependents("b"); got != nil {
		t.Errorf("expected nil for untracked node, got %v", got)
	}
}

func TestCycles_OnePerComponent(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "b")
	s.AddDependency("b", "a")
	s.AddDependency("c", "d")
	s.AddDependency("d", "e")
	s.AddDependency("e", "c")
	s.AddDependency("f", "f")
	s.AddDependency("g", "a")

	cycles := s.Cycles()
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d: %v", len(cycles), cycles)
	}
	for _, c := range cycles {
		assertIsCycle(t, s, c)
	}
	starts := []string{cycles[0][0], cycles[1][0], cycles[2][0]}
	if !slices.Equal(starts, []string{"a", "c", "f"}) {
		t.Errorf("expected cycles starting at [a c f], got %v", cycles)
	}
}

func TestCycles_Acyclic(t *testing.T) {
	t.Parallel()
	s := New[string]()
	s.AddDependency("a", "b")
	s.AddDependency("b", "c")
	if cycles := s.Cycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestSolve_IntNodes(t *testing.T) {
	t.Parallel()
	s := New[int]()
	s.AddDependency(3, 2)
	s.AddDependency(2, 1)
	order, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", order)
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError[string]{Cycle: []string{"a", "b", "a"}}
	expected := "dependency cycle detected: a -> b -> a"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
