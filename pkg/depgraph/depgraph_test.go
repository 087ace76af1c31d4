package depgraph

import (
	"path/filepath"
	"testing"
)

func TestAnalyze_RecordsBothIncludeForms(t *testing.T) {
	src := []byte(`#include "widget.h"
#include <vector>
EXPORT_LUA_CLASS(Widget)
class Widget {};
`)
	exists := func(string) bool { return true }
	facts := Analyze("a.h", "/src", src, exists)

	if len(facts.Includes) != 2 {
		t.Fatalf("Includes = %v, want 2", facts.Includes)
	}
	if !facts.Includes[0].Quoted || facts.Includes[0].Resolved != filepath.Join("/src", "widget.h") {
		t.Errorf("Includes[0] = %+v", facts.Includes[0])
	}
	if facts.Includes[1].Quoted {
		t.Errorf("Includes[1] should not be quoted: %+v", facts.Includes[1])
	}
	if len(facts.Fingerprints) != 1 {
		t.Errorf("Fingerprints = %v, want 1 entry", facts.Fingerprints)
	}
}

func TestBuild_CreatesEdgeForResolvedQuotedInclude(t *testing.T) {
	facts := []FileFacts{
		{Path: "a.h", Includes: []Include{{Path: "b.h", Quoted: true, Resolved: "b.h"}}},
		{Path: "b.h"},
	}
	g := Build(facts)

	deps := g.TransitiveDependencies("a.h")
	if len(deps) != 1 || deps[0] != "b.h" {
		t.Fatalf("TransitiveDependencies(a.h) = %v, want [b.h]", deps)
	}

	dependents := g.TransitiveDependents("b.h")
	if len(dependents) != 1 || dependents[0] != "a.h" {
		t.Fatalf("TransitiveDependents(b.h) = %v, want [a.h]", dependents)
	}
}

func TestBuild_IgnoresIncludesOutsideTheFileSet(t *testing.T) {
	facts := []FileFacts{
		{Path: "a.h", Includes: []Include{{Path: "external.h", Quoted: true, Resolved: "external.h"}}},
	}
	g := Build(facts)
	if deps := g.TransitiveDependencies("a.h"); len(deps) != 0 {
		t.Errorf("TransitiveDependencies(a.h) = %v, want empty", deps)
	}
}

func TestTransitiveDependencies_HandlesCycles(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.h", "b.h")
	g.AddEdge("b.h", "a.h")

	deps := g.TransitiveDependencies("a.h")
	if len(deps) != 1 || deps[0] != "b.h" {
		t.Fatalf("TransitiveDependencies(a.h) = %v, want [b.h] (cycle tolerated)", deps)
	}
}

func TestTopologicalOrder_DependenciesBeforeDependents(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.h", "b.h")
	g.AddEdge("b.h", "c.h")

	order := g.TopologicalOrder([]string{"a.h", "b.h", "c.h"})
	pos := make(map[string]int)
	for i, p := range order {
		pos[p] = i
	}
	if pos["c.h"] > pos["b.h"] || pos["b.h"] > pos["a.h"] {
		t.Errorf("TopologicalOrder() = %v, want c.h before b.h before a.h", order)
	}
}

func TestTopologicalOrder_ToleratesCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.h", "b.h")
	g.AddEdge("b.h", "a.h")

	order := g.TopologicalOrder([]string{"a.h", "b.h"})
	if len(order) != 2 {
		t.Fatalf("TopologicalOrder() = %v, want both nodes exactly once", order)
	}
}
