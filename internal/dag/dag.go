// Package dag provides the parent/child graph behind row hierarchies.
// It keeps insertion order so that traversals are stable, and supports cycle
// detection, pre-order flattening and level computation.
package dag

import (
	"fmt"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (document id)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph is a directed graph of parent -> child edges.
type Graph struct {
	nodes   map[string]*Node
	order   []string            // insertion order
	edges   map[string][]string // parent -> children
	parents map[string][]string // child -> parents
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// Clear removes all nodes and edges from the graph.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = make(map[string][]string)
	g.parents = make(map[string][]string)
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(id string, data any) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &Node{ID: id, Data: data}
		g.order = append(g.order, id)
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	} else {
		// Update data if node already exists
		g.nodes[id].Data = data
	}
}

// AddEdge adds a directed edge from parent to child.
func (g *Graph) AddEdge(parentID, childID string) error {
	// Ensure both nodes exist
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	// Check for self-loops
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	// Add edge (avoid duplicates)
	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parents of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children of a node in insertion order.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// GetRoots returns nodes with no parents, in insertion order.
func (g *Graph) GetRoots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string) // Track the path for error reporting

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				// Found cycle, reconstruct path
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.order {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// PreOrder returns every node with each parent immediately followed by its
// subtree. Roots and siblings keep insertion order. Nodes that are only
// reachable through a cycle are appended at the end in insertion order.
func (g *Graph) PreOrder() []*Node {
	visited := make(map[string]bool, len(g.nodes))
	result := make([]*Node, 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		result = append(result, g.nodes[id])
		for _, childID := range g.edges[id] {
			visit(childID)
		}
	}

	for _, id := range g.GetRoots() {
		visit(id)
	}
	for _, id := range g.order {
		if !visited[id] {
			visit(id)
		}
	}
	return result
}

// Levels returns the depth of every node below its roots: 0 for roots, the
// deepest parent's level plus one otherwise. A cycle is cut at the first back
// edge met.
func (g *Graph) Levels() map[string]int {
	levels := make(map[string]int, len(g.nodes))
	inProgress := make(map[string]bool)

	var getLevel func(id string) int
	getLevel = func(id string) int {
		if level, ok := levels[id]; ok {
			return level
		}
		if inProgress[id] {
			return -1
		}
		inProgress[id] = true
		defer delete(inProgress, id)

		level := 0
		for _, parentID := range g.parents[id] {
			parentLevel := getLevel(parentID)
			if parentLevel < 0 {
				level = 0
				break
			}
			if parentLevel+1 > level {
				level = parentLevel + 1
			}
		}
		levels[id] = level
		return level
	}

	for _, id := range g.order {
		getLevel(id)
	}
	return levels
}

// GetUpstreamNodes returns the ancestors of a node, nearest first.
func (g *Graph) GetUpstreamNodes(id string) []string {
	seen := map[string]bool{id: true}
	var result []string

	queue := append([]string(nil), g.parents[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		result = append(result, next)
		queue = append(queue, g.parents[next]...)
	}
	return result
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
