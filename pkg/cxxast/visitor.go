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

// Package cxxast walks the tree-sitter C++ AST of a translation unit
// and materializes raw ExportRecords for every annotated declaration
// (C6). Annotation payloads are sourced from pkg/annotate, which scans
// the same source text for EXPORT_LUA_* macro occurrences and resolves
// each to a declaration starting at most 3 lines after the macro.
package cxxast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/zeus-cpp/lua-binding-generator/pkg/annotate"
	"github.com/zeus-cpp/lua-binding-generator/pkg/cxxsig"
	"github.com/zeus-cpp/lua-binding-generator/pkg/diag"
	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
	"github.com/zeus-cpp/lua-binding-generator/pkg/nsinfer"
)

// Visitor walks C++ translation units with a pooled tree-sitter parser
// (the parser itself is not thread-safe, so the pool hands one out per
// call and returns it when done, following the same pattern used for
// every other language this generator's ancestor supported).
type Visitor struct {
	logger *slog.Logger

	pool     sync.Pool
	poolInit sync.Once
}

// NewVisitor returns a Visitor. A nil logger falls back to slog.Default.
func NewVisitor(logger *slog.Logger) *Visitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Visitor{logger: logger}
}

func (v *Visitor) initPool() {
	v.poolInit.Do(func() {
		v.pool.New = func() any {
			p := sitter.NewParser()
			p.SetLanguage(cpp.GetLanguage())
			return p
		}
	})
}

// Result is everything C6 produces for one translation unit.
type Result struct {
	Records     []*model.ExportRecord
	ModuleLabel string
}

// ParseFile walks one C++ source file's annotated declarations and
// returns their raw ExportRecords.
func (v *Visitor) ParseFile(path string, content []byte, diags *diag.Collector) (*Result, error) {
	v.initPool()

	parserObj := v.pool.Get()
	parser, ok := parserObj.(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("invalid parser type from cpp pool")
	}
	defer v.pool.Put(parser)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	src := string(content)
	occurrences := annotate.Scan(src)
	moduleLabel := annotate.ModuleLabel(src)

	w := &walker{
		src:    content,
		path:   path,
		occs:   occurrences,
		module: moduleLabel,
		diags:  diags,
	}
	w.walk(tree.RootNode())

	return &Result{Records: w.records, ModuleLabel: moduleLabel}, nil
}

// walker carries the mutable per-file state of one AST traversal.
// Within one file this is strictly single-threaded, per spec.md §5.
type walker struct {
	src  []byte
	path string

	occs   []annotate.Occurrence
	module string

	nsStack    []string
	classStack []string

	records []*model.ExportRecord

	diags *diag.Collector
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// annotationFor returns the decoded payload of the nearest preceding
// EXPORT_LUA_* occurrence that immediately precedes decl's start line
// (within 3 lines, to tolerate blank lines and other attributes
// between the macro and the declaration it annotates), or nil if none.
func (w *walker) annotationFor(declLine int) *annotate.Payload {
	var best *annotate.Occurrence
	for i := range w.occs {
		o := &w.occs[i]
		if o.NextLine <= declLine && declLine-o.NextLine <= 3 {
			best = o
		}
	}
	if best == nil {
		return nil
	}
	kind := annotate.MacroKind(best.Raw)
	if kind == "" {
		return nil
	}
	payload, err := annotate.ParseMacroArgs(kind, annotate.MacroArg(best.Raw))
	if err != nil {
		w.diags.Warn(w.path, best.Line, "malformed annotation: %v", err)
		return nil
	}
	return payload
}

func (w *walker) currentCppNamespace() string {
	return nsinfer.CppPath(w.nsStack)
}

func (w *walker) currentClass() string {
	if len(w.classStack) == 0 {
		return ""
	}
	return w.classStack[len(w.classStack)-1]
}

func (w *walker) qualify(name string) string {
	var parts []string
	if ns := w.currentCppNamespace(); ns != "" {
		parts = append(parts, ns)
	}
	parts = append(parts, w.classStack...)
	parts = append(parts, name)
	return strings.Join(parts, "::")
}

// walk recurses through the tree, dispatching on node type. Each
// override decides for itself whether to recurse into children
// (cooperative recursion, per spec.md §9); class and namespace bodies
// manage their own child traversal so they can push/pop the
// class/namespace stacks around it.
func (w *walker) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "namespace_definition":
		w.visitNamespace(n)
		return
	case "class_specifier", "struct_specifier":
		w.visitClass(n)
		return
	case "function_definition":
		w.visitFunctionLike(n)
	case "declaration":
		w.visitDeclaration(n)
	case "field_declaration":
		w.visitField(n)
	case "enum_specifier":
		w.visitEnum(n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i))
	}
}

func (w *walker) visitNamespace(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	w.nsStack = append(w.nsStack, name)
	bodyNode := n.ChildByFieldName("body")
	if bodyNode != nil {
		for i := 0; i < int(bodyNode.NamedChildCount()); i++ {
			w.walk(bodyNode.NamedChild(i))
		}
	}
	w.nsStack = w.nsStack[:len(w.nsStack)-1]
}

func annotationIsIgnored(p *annotate.Payload) bool {
	return p != nil && p.Kind == "ignore"
}

func paramTypesAndNames(paramStr string) (types, names []string) {
	for _, p := range cxxsig.ParseParams(paramStr) {
		types = append(types, p.Type)
		names = append(names, p.Name)
	}
	return types, names
}
