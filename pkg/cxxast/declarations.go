// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package cxxast

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/zeus-cpp/lua-binding-generator/pkg/annotate"
	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

var classKinds = map[string]model.Kind{
	"class":          model.KindClass,
	"abstract_class": model.KindAbstractClass,
	"static_class":   model.KindStaticClass,
	"singleton":      model.KindSingleton,
	"template_class": model.KindTemplateClass,
}

func (w *walker) visitClass(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	if name == "" {
		return
	}

	declLine := w.line(n)
	payload := w.annotationFor(declLine)

	if payload != nil && annotationIsIgnored(payload) {
		return
	}

	w.classStack = append(w.classStack, name)
	defer func() { w.classStack = w.classStack[:len(w.classStack)-1] }()

	if payload != nil {
		if kind, ok := classKinds[payload.Kind]; ok {
			rec := &model.ExportRecord{
				Kind:          kind,
				CppName:       name,
				QualifiedName: w.qualify(name),
				CppNamespace:  w.currentCppNamespace(),
				Module:        w.module,
				BaseClasses:   w.extractBaseClasses(n),
				UserParams:    payload.Attrs,
				SourceFile:    w.path,
				SourceLine:    declLine,
			}
			if alias, ok := payload.Attrs["alias"]; ok {
				rec.ScriptName = alias
			}
			w.records = append(w.records, rec)
		}
	}

	body := n.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			w.walk(body.NamedChild(i))
		}
	}
}

// extractBaseClasses pulls the base class spellings out of a
// class/struct header by scanning the raw text between the class name
// and the opening brace, since tree-sitter-cpp's base_class_clause
// grammar varies by grammar version and the spec only asks for type
// spellings, not access specifiers.
func (w *walker) extractBaseClasses(n *sitter.Node) []string {
	header := w.text(n)
	colon := strings.IndexByte(header, ':')
	brace := strings.IndexByte(header, '{')
	if colon < 0 || brace < 0 || colon > brace {
		return nil
	}
	clause := header[colon+1 : brace]
	var bases []string
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "public")
		part = strings.TrimPrefix(part, "private")
		part = strings.TrimPrefix(part, "protected")
		part = strings.TrimPrefix(part, "virtual")
		part = strings.TrimSpace(part)
		if part != "" {
			bases = append(bases, part)
		}
	}
	return bases
}

func (w *walker) visitFunctionLike(n *sitter.Node) {
	declLine := w.line(n)
	payload := w.annotationFor(declLine)
	if payload == nil || annotationIsIgnored(payload) {
		return
	}

	declarator := n.ChildByFieldName("declarator")
	typeNode := n.ChildByFieldName("type")
	name, paramStr := splitDeclarator(w.text(declarator))
	if name == "" {
		return
	}

	rec := w.buildFunctionRecord(payload, name, w.text(typeNode), paramStr, declLine, n)
	if rec != nil {
		w.records = append(w.records, rec)
	}
}

// visitDeclaration handles prototype-only function declarations
// (methods declared but defined elsewhere) and namespace-scope
// variable declarations.
func (w *walker) visitDeclaration(n *sitter.Node) {
	declLine := w.line(n)
	payload := w.annotationFor(declLine)
	if payload == nil || annotationIsIgnored(payload) {
		return
	}

	declarator := n.ChildByFieldName("declarator")
	typeNode := n.ChildByFieldName("type")
	text := w.text(declarator)

	if strings.Contains(text, "(") {
		name, paramStr := splitDeclarator(text)
		if name == "" {
			return
		}
		rec := w.buildFunctionRecord(payload, name, w.text(typeNode), paramStr, declLine, n)
		if rec != nil {
			w.records = append(w.records, rec)
		}
		return
	}

	// Namespace-scope variable: treat as a constant iff declared const.
	name := strings.TrimSpace(text)
	if name == "" || w.currentClass() != "" {
		return
	}
	typeText := w.text(typeNode)
	kind := model.KindVariable
	if strings.Contains(typeText, "const") {
		kind = model.KindConstant
	}
	rec := &model.ExportRecord{
		Kind:            kind,
		CppName:         name,
		QualifiedName:   w.qualify(name),
		CppNamespace:    w.currentCppNamespace(),
		ScriptNamespace: "",
		Module:          w.module,
		ReturnType:      typeText,
		UserParams:      payload.Attrs,
		SourceFile:      w.path,
		SourceLine:      declLine,
	}
	if alias, ok := payload.Attrs["alias"]; ok {
		rec.ScriptName = alias
	}
	w.records = append(w.records, rec)
}

func (w *walker) buildFunctionRecord(payload *annotate.Payload, name, returnType, paramStr string, line int, n *sitter.Node) *model.ExportRecord {
	header := w.text(n)

	parent := w.currentClass()
	isConstructor := parent != "" && name == parent
	kind := model.KindFunction
	switch {
	case isConstructor:
		kind = model.KindConstructor
	case parent != "":
		kind = model.KindMethod
		if payload.Kind == "static_method" {
			kind = model.KindStaticMethod
		}
	}
	if payload.Kind == "operator" || strings.HasPrefix(name, "operator") {
		kind = model.KindOperator
	}

	rec := &model.ExportRecord{
		Kind:          kind,
		CppName:       name,
		QualifiedName: w.qualify(name),
		CppNamespace:  w.currentCppNamespace(),
		Module:        w.module,
		ParentClass:   parent,
		UserParams:    payload.Attrs,
		SourceFile:    w.path,
		SourceLine:    line,
		IsStatic:      strings.Contains(header, "static "),
		IsConst:       strings.HasSuffix(strings.TrimSpace(trimBody(header)), "const"),
		IsVirtual:     strings.Contains(header, "virtual "),
		IsPureVirtual: strings.Contains(header, "= 0"),
	}
	if !isConstructor {
		rec.ReturnType = strings.TrimSpace(returnType)
	}
	types, names := paramTypesAndNames(paramStr)
	rec.ParameterTypes = types
	rec.ParameterNames = names
	if alias, ok := payload.Attrs["alias"]; ok {
		rec.ScriptName = alias
	}
	if kind == model.KindOperator {
		rec.OperatorSymbol = strings.TrimPrefix(name, "operator")
	}
	return rec
}

// trimBody strips a trailing "{ ... }" function body or ";" prototype
// terminator from a declarator's full text so a trailing "const"
// qualifier can be detected without matching "const" occurrences
// inside the body itself.
func trimBody(header string) string {
	if brace := strings.IndexByte(header, '{'); brace >= 0 {
		header = header[:brace]
	}
	return strings.TrimSuffix(strings.TrimSpace(header), ";")
}

// splitDeclarator pulls the function name and raw parameter-list text
// out of a declarator's text, e.g. "resize(int w, int h)" ->
// ("resize", "int w, int h").
func splitDeclarator(declText string) (name, paramStr string) {
	open := strings.IndexByte(declText, '(')
	if open < 0 {
		return "", ""
	}
	name = strings.TrimSpace(declText[:open])
	if idx := strings.LastIndexAny(name, " *&"); idx >= 0 {
		name = name[idx+1:]
	}
	depth := 0
	for i := open; i < len(declText); i++ {
		switch declText[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				paramStr = declText[open+1 : i]
				return name, paramStr
			}
		}
	}
	return name, ""
}

func (w *walker) visitField(n *sitter.Node) {
	declLine := w.line(n)
	payload := w.annotationFor(declLine)
	if payload == nil || annotationIsIgnored(payload) {
		return
	}

	declarator := n.ChildByFieldName("declarator")
	typeNode := n.ChildByFieldName("type")
	text := w.text(declarator)

	if strings.Contains(text, "(") {
		// A field_declaration whose declarator has parens is an
		// in-class method prototype in some grammar shapes.
		name, paramStr := splitDeclarator(text)
		if name != "" {
			if rec := w.buildFunctionRecord(payload, name, w.text(typeNode), paramStr, declLine, n); rec != nil {
				w.records = append(w.records, rec)
			}
		}
		return
	}

	name := strings.TrimSpace(strings.TrimLeft(text, "*&"))
	if name == "" {
		return
	}
	parent := w.currentClass()
	rec := &model.ExportRecord{
		Kind:          model.KindField,
		CppName:       name,
		QualifiedName: w.qualify(name),
		CppNamespace:  w.currentCppNamespace(),
		Module:        w.module,
		ParentClass:   parent,
		ReturnType:    w.text(typeNode),
		UserParams:    payload.Attrs,
		SourceFile:    w.path,
		SourceLine:    declLine,
	}
	if alias, ok := payload.Attrs["alias"]; ok {
		rec.ScriptName = alias
	}
	w.records = append(w.records, rec)
}

func (w *walker) visitEnum(n *sitter.Node) {
	declLine := w.line(n)
	payload := w.annotationFor(declLine)
	if payload == nil || annotationIsIgnored(payload) {
		return
	}

	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	if name == "" {
		return
	}

	rec := &model.ExportRecord{
		Kind:          model.KindEnum,
		CppName:       name,
		QualifiedName: w.qualify(name),
		CppNamespace:  w.currentCppNamespace(),
		Module:        w.module,
		UserParams:    payload.Attrs,
		SourceFile:    w.path,
		SourceLine:    declLine,
		EnumValues:    w.extractEnumValues(n),
	}
	if alias, ok := payload.Attrs["alias"]; ok {
		rec.ScriptName = alias
	}
	w.records = append(w.records, rec)
}

// extractEnumValues scans the enumerator_list text for NAME or
// NAME=value entries, assigning sequential values to any entry that
// omits an explicit initializer, exactly as C++ does.
func (w *walker) extractEnumValues(n *sitter.Node) []model.EnumValue {
	header := w.text(n)
	open := strings.IndexByte(header, '{')
	closeIdx := strings.LastIndexByte(header, '}')
	if open < 0 || closeIdx < 0 || closeIdx <= open {
		return nil
	}
	body := header[open+1 : closeIdx]

	var values []model.EnumValue
	next := int64(0)
	for _, entry := range strings.Split(body, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, valStr, hasVal := cutFirstByte(entry, '=')
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		val := next
		if hasVal {
			if parsed, err := strconv.ParseInt(strings.TrimSpace(valStr), 0, 64); err == nil {
				val = parsed
			}
		}
		values = append(values, model.EnumValue{Name: name, Value: val})
		next = val + 1
	}
	return values
}

func cutFirstByte(s string, sep byte) (before, after string, found bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
