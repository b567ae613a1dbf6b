package dag

import (
	"reflect"
	"testing"
)

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()

	g.AddNode("a", "node A")
	g.AddNode("b", "node B")
	g.AddNode("c", "node C")

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}

	// b is a child of a
	if err := g.AddEdge("a", "b"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	// c is a child of b
	if err := g.AddEdge("b", "c"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	// duplicate edges are ignored
	if err := g.AddEdge("b", "c"); err != nil {
		t.Errorf("failed to add duplicate edge: %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}

	g.AddNode("a", "updated")
	if node, _ := g.GetNode("a"); node.Data != "updated" {
		t.Errorf("expected node data to be updated, got %v", node.Data)
	}
	if g.NodeCount() != 3 {
		t.Errorf("re-adding a node must not duplicate it, got %d", g.NodeCount())
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)

	if err := g.AddEdge("a", "nonexistent"); err == nil {
		t.Error("expected error for nonexistent child node")
	}
	if err := g.AddEdge("nonexistent", "a"); err == nil {
		t.Error("expected error for nonexistent parent node")
	}
	if err := g.AddEdge("a", "a"); err == nil {
		t.Error("expected error for self-loop")
	}
}

func TestGraph_HasCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	g.AddNode("c", nil)
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "c")

	if hasCycle, path := g.HasCycle(); hasCycle {
		t.Errorf("expected no cycle, but found: %v", path)
	}

	_ = g.AddEdge("c", "a")
	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Error("expected cycle to be detected")
	}
	if len(path) == 0 {
		t.Error("expected cycle path to be non-empty")
	}
}

func TestGraph_PreOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"c1", "r1", "c2", "r2", "g1"} {
		g.AddNode(id, nil)
	}
	_ = g.AddEdge("r1", "c1")
	_ = g.AddEdge("r1", "c2")
	_ = g.AddEdge("c1", "g1")

	got := ids(g.PreOrder())
	want := []string{"r1", "c1", "g1", "c2", "r2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PreOrder() = %v, want %v", got, want)
	}
}

func TestGraph_PreOrder_KeepsCycleMembers(t *testing.T) {
	g := NewGraph()
	g.AddNode("root", nil)
	g.AddNode("x", nil)
	g.AddNode("y", nil)
	_ = g.AddEdge("x", "y")
	_ = g.AddEdge("y", "x")

	got := ids(g.PreOrder())
	want := []string{"root", "x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PreOrder() = %v, want %v", got, want)
	}
}

func TestGraph_Levels(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id, nil)
	}
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "c")

	levels := g.Levels()
	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 0}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}
}

func TestGraph_GetRootsAndUpstream(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"z", "a", "b", "c"} {
		g.AddNode(id, nil)
	}
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "c")

	if roots := g.GetRoots(); !reflect.DeepEqual(roots, []string{"z", "a"}) {
		t.Errorf("GetRoots() = %v, want insertion order [z a]", roots)
	}
	if up := g.GetUpstreamNodes("c"); !reflect.DeepEqual(up, []string{"b", "a"}) {
		t.Errorf("GetUpstreamNodes(c) = %v, want [b a]", up)
	}
	if children := g.GetChildren("a"); !reflect.DeepEqual(children, []string{"b"}) {
		t.Errorf("GetChildren(a) = %v", children)
	}
	if parents := g.GetParents("c"); !reflect.DeepEqual(parents, []string{"b"}) {
		t.Errorf("GetParents(c) = %v", parents)
	}
}

func TestGraph_Clear(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.Clear()
	if g.NodeCount() != 0 || len(g.GetRoots()) != 0 {
		t.Error("expected empty graph after Clear")
	}
}
