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

// Package emit assembles one module's validated ExportRecords into a
// single generated C++ source file that registers every entity with a
// sol2-style binding state (C8). Building the output text is a pure
// string-assembly pass: no record is mutated and no file is written
// here, mirroring the Datalog-script assembly style this generator's
// ancestor used for its own mutation builder.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
	"github.com/zeus-cpp/lua-binding-generator/pkg/nsinfer"
)

// Options configures the binding-library surface the emitted file
// targets. Defaults match sol2, the library spec.md's own wording
// ("a C++ binding library such as sol2") names as the reference target.
type Options struct {
	BindingHeader string
	StateType     string
	StateParam    string
}

// DefaultOptions returns the sol2-flavored defaults.
func DefaultOptions() Options {
	return Options{
		BindingHeader: "sol/sol.hpp",
		StateType:     "sol::state_view",
		StateParam:    "lua",
	}
}

func classKind(k model.Kind) bool {
	switch k {
	case model.KindClass, model.KindAbstractClass, model.KindStaticClass, model.KindSingleton:
		return true
	}
	return false
}

// BuildBundle partitions one module's records per spec.md §4.8.1: class
// records become bundle owners, records whose parent_class names a
// known class become that class's members, and everything else
// (functions, enums, constants, standalone STL containers) becomes a
// free record.
func BuildBundle(moduleName string, records []*model.ExportRecord) *model.ModuleBundle {
	bundle := model.NewModuleBundle(moduleName)

	for _, r := range records {
		if classKind(r.Kind) {
			bundle.SetClassRecord(r)
		}
	}

	for _, r := range records {
		if classKind(r.Kind) {
			if r.SourceFile != "" {
				bundle.Headers[r.SourceFile] = struct{}{}
			}
			continue
		}
		if r.SourceFile != "" {
			bundle.Headers[r.SourceFile] = struct{}{}
		}
		if r.ParentClass != "" {
			if _, ok := bundle.Classes[r.ParentClass]; ok {
				bundle.ClassMembers[r.ParentClass] = append(bundle.ClassMembers[r.ParentClass], r)
				continue
			}
		}
		bundle.FreeRecords = append(bundle.FreeRecords, r)
	}

	return bundle
}

// dedupKey is the (script_name, qualified_name) pair the emitter
// de-duplicates every category by, per spec.md §4.8.4.
type dedupKey struct {
	scriptName    string
	qualifiedName string
}

func dedup(records []*model.ExportRecord) []*model.ExportRecord {
	seen := make(map[dedupKey]bool, len(records))
	out := make([]*model.ExportRecord, 0, len(records))
	for _, r := range records {
		k := dedupKey{r.ScriptName, r.QualifiedName}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// Emit renders bundle as a complete generated C++ translation unit.
func Emit(bundle *model.ModuleBundle, opts Options) (string, error) {
	var buf strings.Builder

	writeHeader(&buf, bundle, opts)

	buf.WriteString(fmt.Sprintf("void register_%s_bindings(%s %s) {\n", bundle.ModuleName, opts.StateType, opts.StateParam))

	locals := writeNamespaceBootstrap(&buf, bundle, opts)

	for _, className := range bundle.ClassOrder {
		class := bundle.Classes[className]
		if class == nil {
			continue
		}
		if err := writeClassBlock(&buf, class, bundle.ClassMembers[className], locals, opts); err != nil {
			return "", fmt.Errorf("emit class %s: %w", className, err)
		}
	}

	writeFreeRecords(&buf, bundle.FreeRecords, locals, opts)

	buf.WriteString("}\n")

	return buf.String(), nil
}

func writeHeader(buf *strings.Builder, bundle *model.ModuleBundle, opts Options) {
	buf.WriteString("// Code generated by lua-binding-generator. DO NOT EDIT.\n\n")
	buf.WriteString(fmt.Sprintf("#include <%s>\n", opts.BindingHeader))

	headers := make([]string, 0, len(bundle.Headers))
	for h := range bundle.Headers {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	for _, h := range headers {
		buf.WriteString(fmt.Sprintf("#include %q\n", h))
	}
	buf.WriteString("\n")
}

// writeNamespaceBootstrap emits one local-variable binding per unique
// non-global script_namespace in use across the whole bundle (memoized
// bundle-wide, not per class, per SPEC_FULL item 3) and returns the
// path->local-variable map for the rest of emission to consume.
func writeNamespaceBootstrap(buf *strings.Builder, bundle *model.ModuleBundle, opts Options) map[string]string {
	locals := map[string]string{"": opts.StateParam}

	var paths []string
	seen := map[string]bool{"": true}
	collect := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}
	for _, className := range bundle.ClassOrder {
		if class := bundle.Classes[className]; class != nil {
			collect(class.ScriptNamespace)
		}
	}
	for _, r := range bundle.FreeRecords {
		collect(r.ScriptNamespace)
	}
	sort.Strings(paths)

	for _, path := range paths {
		local := nsinfer.LocalVarName(path)
		locals[path] = local
		segments := nsinfer.PathSegments(path)
		parentLocal := opts.StateParam
		parentPath := ""
		for i, seg := range segments {
			parentPath = strings.Join(segments[:i+1], ".")
			thisLocal := nsinfer.LocalVarName(parentPath)
			if _, declared := locals[parentPath]; !declared || parentPath == path {
				buf.WriteString(fmt.Sprintf("  auto %s = %s[%q].get_or_create<sol::table>();\n", thisLocal, parentLocal, seg))
				locals[parentPath] = thisLocal
			}
			parentLocal = thisLocal
		}
	}
	return locals
}

func localFor(locals map[string]string, path string) string {
	if l, ok := locals[path]; ok {
		return l
	}
	return nsinfer.LocalVarName(path)
}

// writeClassBlock emits one new_usertype<> initializer in the entry
// order spec.md §4.8.3 requires: base classes, constructors, methods,
// static methods, properties, operators. Every entry but the last
// carries a trailing comma.
func writeClassBlock(buf *strings.Builder, class *model.ExportRecord, members []*model.ExportRecord, locals map[string]string, opts Options) error {
	local := localFor(locals, class.ScriptNamespace)

	var constructors, methods, staticMethods, properties, operators []*model.ExportRecord
	for _, m := range members {
		switch m.Kind {
		case model.KindConstructor:
			constructors = append(constructors, m)
		case model.KindMethod:
			methods = append(methods, m)
		case model.KindStaticMethod:
			staticMethods = append(staticMethods, m)
		case model.KindProperty:
			properties = append(properties, m)
		case model.KindOperator:
			operators = append(operators, m)
		}
	}
	constructors = dedup(constructors)
	methods = dedup(methods)
	staticMethods = dedup(staticMethods)
	properties = dedup(properties)
	operators = dedup(operators)

	var entries []string

	if len(class.BaseClasses) > 0 {
		entries = append(entries, fmt.Sprintf("sol::base_classes, sol::bases<%s>()", strings.Join(class.BaseClasses, ", ")))
	}
	if len(constructors) == 0 && class.Kind != model.KindStaticClass && class.Kind != model.KindAbstractClass {
		entries = append(entries, fmt.Sprintf("sol::constructors<%s()>()", class.QualifiedName))
	}
	for _, c := range constructors {
		entries = append(entries, fmt.Sprintf("sol::constructors<%s(%s)>()", class.QualifiedName, strings.Join(c.ParameterTypes, ", ")))
	}
	for _, m := range methods {
		entries = append(entries, fmt.Sprintf("%q, &%s", m.ScriptName, m.QualifiedName))
	}
	for _, m := range staticMethods {
		entries = append(entries, fmt.Sprintf("%q, &%s", m.ScriptName, m.QualifiedName))
	}
	for _, p := range properties {
		entries = append(entries, propertyEntry(p, class))
	}
	for _, o := range operators {
		if o.ScriptMetamethod == "" {
			continue
		}
		entries = append(entries, fmt.Sprintf("sol::meta_function::%s, &%s", sol2MetaEnum(o.ScriptMetamethod), o.QualifiedName))
	}

	buf.WriteString(fmt.Sprintf("  %s[%q].new_usertype<%s>(%q", local, class.ScriptName, class.QualifiedName, class.ScriptName))
	for _, e := range entries {
		buf.WriteString(",\n    ")
		buf.WriteString(e)
	}
	buf.WriteString("\n  );\n")
	return nil
}

func propertyEntry(p *model.ExportRecord, class *model.ExportRecord) string {
	getter := fmt.Sprintf("&%s::%s", class.QualifiedName, p.GetterMethod)
	if p.PropertyAccess == model.AccessReadWrite {
		setter := fmt.Sprintf("&%s::%s", class.QualifiedName, p.SetterMethod)
		return fmt.Sprintf("%q, sol::property(%s, %s)", p.ScriptName, getter, setter)
	}
	return fmt.Sprintf("%q, sol::readonly_property(%s)", p.ScriptName, getter)
}

// sol2MetaEnum converts a "__add"-style metamethod name to sol2's
// meta_function enumerator spelling ("add").
func sol2MetaEnum(metamethod string) string {
	return strings.TrimPrefix(metamethod, "__")
}

func writeFreeRecords(buf *strings.Builder, records []*model.ExportRecord, locals map[string]string, opts Options) {
	functions := dedup(filterKind(records, model.KindFunction))
	enums := filterKind(records, model.KindEnum)
	containers := filterKind(records, model.KindSTLContainer)
	constants := filterKind(records, model.KindConstant)

	for _, f := range functions {
		local := localFor(locals, f.ScriptNamespace)
		buf.WriteString(fmt.Sprintf("  %s[%q] = &%s;\n", local, f.ScriptName, f.QualifiedName))
	}
	for _, c := range constants {
		local := localFor(locals, c.ScriptNamespace)
		buf.WriteString(fmt.Sprintf("  %s[%q] = %s;\n", local, c.ScriptName, c.QualifiedName))
	}
	for _, e := range enums {
		writeEnumRegistration(buf, e, locals)
	}
	for _, c := range containers {
		writeContainerRegistration(buf, c, locals)
	}
}

func filterKind(records []*model.ExportRecord, kind model.Kind) []*model.ExportRecord {
	var out []*model.ExportRecord
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func writeEnumRegistration(buf *strings.Builder, e *model.ExportRecord, locals map[string]string) {
	local := localFor(locals, e.ScriptNamespace)
	buf.WriteString(fmt.Sprintf("  %s.new_enum<%s>(%q", local, e.QualifiedName, e.ScriptName))
	for _, v := range e.EnumValues {
		buf.WriteString(fmt.Sprintf(",\n    %q, %s::%s", v.Name, e.QualifiedName, v.Name))
	}
	buf.WriteString("\n  );\n")
}

// writeContainerRegistration emits the STL stub spec.md §4.8.5
// requires: a usertype with a default constructor and the minimum
// vector-shaped surface (size/empty/clear/push_back/pop_back) for a
// vector, and a simpler size/empty/clear surface for map/set, since the
// contract only asks that script-visible name and C++ type be
// deterministic functions of the element types.
func writeContainerRegistration(buf *strings.Builder, c *model.ExportRecord, locals map[string]string) {
	local := localFor(locals, c.ScriptNamespace)
	buf.WriteString(fmt.Sprintf("  %s.new_usertype<%s>(%q,\n", local, c.QualifiedName, c.ScriptName))
	buf.WriteString(fmt.Sprintf("    sol::constructors<%s()>(),\n", c.QualifiedName))
	buf.WriteString("    \"size\", &" + c.QualifiedName + "::size,\n")
	buf.WriteString("    \"empty\", &" + c.QualifiedName + "::empty,\n")
	buf.WriteString("    \"clear\", &" + c.QualifiedName + "::clear")
	if c.ContainerKind == "vector" || c.ContainerKind == "list" || c.ContainerKind == "deque" {
		buf.WriteString(",\n    \"push_back\", &" + c.QualifiedName + "::push_back")
		buf.WriteString(",\n    \"pop_back\", &" + c.QualifiedName + "::pop_back")
	}
	buf.WriteString("\n  );\n")
}
