// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package depgraph parses #include directives and EXPORT_LUA_*
// fingerprints to build the file-level dependency graph (C9).
package depgraph

import (
	"path/filepath"
	"regexp"

	"github.com/zeus-cpp/lua-binding-generator/pkg/annotate"
	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

var includePattern = regexp.MustCompile(`(?m)^\s*#\s*include\s*(["<])([^">]+)[">]`)

// Include is one #include directive found in a file.
type Include struct {
	Path      string
	Quoted    bool // true for "..." includes, false for <...>
	Resolved  string
	HadTarget bool // whether Resolved points at a file that actually exists
}

// FileFacts is everything C9 extracts from one file's raw content.
type FileFacts struct {
	Path         string
	Includes     []Include
	Fingerprints []string
}

// Analyze scans src for #include directives (both quoted and angled
// forms are recorded, but only quoted includes are resolved against
// dir, the including file's directory) and EXPORT_LUA_* fingerprints.
func Analyze(path, dir string, src []byte, fileExists func(string) bool) FileFacts {
	text := string(src)
	facts := FileFacts{Path: path, Fingerprints: annotate.Fingerprints(text)}

	for _, m := range includePattern.FindAllStringSubmatch(text, -1) {
		quoted := m[1] == `"`
		inc := Include{Path: m[2], Quoted: quoted}
		if quoted {
			resolved := filepath.Join(dir, m[2])
			inc.Resolved = resolved
			if fileExists != nil {
				inc.HadTarget = fileExists(resolved)
			}
		}
		facts.Includes = append(facts.Includes, inc)
	}
	return facts
}

// Graph is the file-level dependency graph built from a batch of
// FileFacts. Edge A->B (A depends on B) is recorded when A's resolved
// quoted includes name B.
type Graph struct {
	nodes map[string]*model.DependencyNode
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*model.DependencyNode)}
}

// Build constructs a Graph from a set of analyzed files, keyed by
// path. Only resolved quoted includes that name another file present
// in facts become edges; unresolved or angle-bracket includes are
// external headers the graph doesn't track.
func Build(facts []FileFacts) *Graph {
	g := NewGraph()
	present := make(map[string]bool, len(facts))
	for _, f := range facts {
		present[f.Path] = true
		g.ensure(f.Path)
	}
	for _, f := range facts {
		for _, inc := range f.Includes {
			if !inc.Quoted || inc.Resolved == "" {
				continue
			}
			target := inc.Resolved
			if !present[target] {
				continue
			}
			g.AddEdge(f.Path, target)
		}
	}
	return g
}

func (g *Graph) ensure(path string) *model.DependencyNode {
	n, ok := g.nodes[path]
	if !ok {
		n = model.NewDependencyNode(path)
		g.nodes[path] = n
	}
	return n
}

// AddEdge records that from depends on to.
func (g *Graph) AddEdge(from, to string) {
	if from == to {
		return
	}
	fromNode := g.ensure(from)
	toNode := g.ensure(to)
	fromNode.Dependencies[to] = struct{}{}
	toNode.Dependents[from] = struct{}{}
}

// Node returns the graph node for path, or nil if path isn't in the graph.
func (g *Graph) Node(path string) *model.DependencyNode {
	return g.nodes[path]
}

// Paths returns every path known to the graph.
func (g *Graph) Paths() []string {
	out := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		out = append(out, p)
	}
	return out
}

// TransitiveDependencies returns every file reachable from path by
// following dependency edges, via depth-first traversal with a
// visited set so cycles (tolerated per spec.md §3.2) don't recurse
// forever.
func (g *Graph) TransitiveDependencies(path string) []string {
	visited := make(map[string]bool)
	var order []string
	var visit func(string)
	visit = func(p string) {
		n := g.nodes[p]
		if n == nil {
			return
		}
		for dep := range n.Dependencies {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			order = append(order, dep)
			visit(dep)
		}
	}
	visited[path] = true
	visit(path)
	return order
}

// TransitiveDependents returns every file that transitively depends on
// path (the reverse-edge closure), used by the incremental driver to
// propagate a dirty file's invalidation forward.
func (g *Graph) TransitiveDependents(path string) []string {
	visited := make(map[string]bool)
	var order []string
	var visit func(string)
	visit = func(p string) {
		n := g.nodes[p]
		if n == nil {
			return
		}
		for dep := range n.Dependents {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			order = append(order, dep)
			visit(dep)
		}
	}
	visited[path] = true
	visit(path)
	return order
}

// TopologicalOrder returns paths ordered so that every file precedes
// anything that depends on it (dependencies before dependents).
// Cycles (header self-inclusion loops) are broken arbitrarily: a node
// already on the current DFS stack is skipped rather than revisited.
func (g *Graph) TopologicalOrder(paths []string) []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var order []string
	var visit func(string)
	visit = func(p string) {
		if visited[p] || onStack[p] {
			return
		}
		onStack[p] = true
		if n := g.nodes[p]; n != nil {
			for dep := range n.Dependencies {
				visit(dep)
			}
		}
		onStack[p] = false
		visited[p] = true
		order = append(order, p)
	}
	for _, p := range paths {
		visit(p)
	}
	return order
}
