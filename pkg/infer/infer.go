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

// Package infer promotes the raw records C6 extracts into the richer
// export model (C7): script name/namespace, property pairing, operator
// metamethod mapping, singleton/static/abstract class detection, STL
// container auxiliary records, and callback recognition.
package infer

import (
	"strings"

	"github.com/zeus-cpp/lua-binding-generator/pkg/diag"
	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
	"github.com/zeus-cpp/lua-binding-generator/pkg/naming"
	"github.com/zeus-cpp/lua-binding-generator/pkg/nsinfer"
	"github.com/zeus-cpp/lua-binding-generator/pkg/property"
	"github.com/zeus-cpp/lua-binding-generator/pkg/typesys"
)

// Options configures the parts of inference the project config controls.
type Options struct {
	PreferSnakeCase  bool
	DefaultNamespace string
}

// singletonAccessors is the closed set of C7.3 plus the capitalized
// "Instance" spelling the original zeus singleton.h also recognizes.
var singletonAccessors = map[string]bool{
	"instance":     true,
	"getInstance":  true,
	"get_instance": true,
	"GetInstance":  true,
	"Instance":     true,
}

var operatorMetamethods = map[string]string{
	"+":  "__add",
	"-":  "__sub",
	"*":  "__mul",
	"/":  "__div",
	"%":  "__mod",
	"==": "__eq",
	"<":  "__lt",
	"<=": "__le",
	"()": "__call",
	"[]": "__index",
	"<<": "__shl",
}

// Infer runs the full C7 pipeline over one file's (or one module's)
// batch of raw records and returns the validated, enriched record set.
// Invalid records are dropped and reported through diags rather than
// failing the batch.
func Infer(records []*model.ExportRecord, opts Options, diags *diag.Collector) []*model.ExportRecord {
	membersByClass := groupMembers(records)

	for _, r := range records {
		deriveScriptName(r, opts.PreferSnakeCase)
		r.ScriptNamespace = nsinfer.ScriptPath(r.UserParams, r.CppNamespace, r.Module, opts.DefaultNamespace)

		switch r.Kind {
		case model.KindClass, model.KindAbstractClass, model.KindStaticClass, model.KindSingleton:
			inferClassFacts(r, membersByClass[r.CppName])
		case model.KindMethod, model.KindStaticMethod, model.KindOperator:
			classifyOperator(r)
		case model.KindField:
			classifyCallback(r)
		}
	}

	records = appendPropertyRecords(records, membersByClass, opts)
	records = appendSTLAuxiliaryRecords(records, opts)

	out := make([]*model.ExportRecord, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			diags.Warn(r.SourceFile, r.SourceLine, "dropping invalid record %q: %v", r.CppName, err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// groupMembers buckets method/field/constructor records by their
// parent_class cpp_name.
func groupMembers(records []*model.ExportRecord) map[string][]*model.ExportRecord {
	members := make(map[string][]*model.ExportRecord)
	for _, r := range records {
		if r.ParentClass == "" {
			continue
		}
		members[r.ParentClass] = append(members[r.ParentClass], r)
	}
	return members
}

func deriveScriptName(r *model.ExportRecord, preferSnake bool) {
	if r.ScriptName != "" {
		return
	}
	if alias, ok := r.UserParams["alias"]; ok && alias != "" {
		r.ScriptName = naming.Sanitize(alias)
		return
	}
	r.ScriptName = naming.ToScriptName(r.CppName, preferSnake)
}

// inferClassFacts detects the singleton/static/abstract facts of C7.3
// from a class's member set, without altering the record's Kind (which
// was already fixed by the explicit annotation suffix).
func inferClassFacts(r *model.ExportRecord, members []*model.ExportRecord) {
	hasConstructor := false
	hasNonStaticMember := false
	hasPureVirtual := false

	for _, m := range members {
		switch m.Kind {
		case model.KindConstructor:
			hasConstructor = true
		case model.KindMethod:
			hasNonStaticMember = true
			if m.IsPureVirtual {
				hasPureVirtual = true
			}
		case model.KindStaticMethod:
			if singletonAccessors[m.CppName] {
				r.IsSingleton = true
				r.SingletonAccessor = m.CppName
			}
			if m.IsPureVirtual {
				hasPureVirtual = true
			}
		case model.KindField:
			hasNonStaticMember = true
		}
	}

	r.IsStaticClassFlag = !hasConstructor && !hasNonStaticMember
	r.IsAbstractFlag = hasPureVirtual
}

// classifyOperator promotes a method record named operator<symbol> to
// kind=operator with its mapped script metamethod, per spec.md §4.7.4.
// Methods already tagged kind=operator by the annotation are handled
// the same way; a symbol with no mapping falls back to a regular
// method, since the target runtime cannot bind it as a metamethod.
func classifyOperator(r *model.ExportRecord) {
	if r.Kind != model.KindOperator && !strings.HasPrefix(r.CppName, "operator") {
		return
	}
	r.Kind = model.KindOperator
	symbol := r.OperatorSymbol
	if symbol == "" {
		symbol = strings.TrimPrefix(r.CppName, "operator")
	}
	r.OperatorSymbol = symbol

	if symbol == "-" && len(r.ParameterTypes) == 0 {
		r.ScriptMetamethod = "__unm"
		return
	}
	if mm, ok := operatorMetamethods[symbol]; ok {
		r.ScriptMetamethod = mm
		return
	}
	// No metamethod mapping for this symbol: emit as a regular method.
	r.Kind = model.KindMethod
	r.ScriptMetamethod = ""
}

// classifyCallback marks a field whose declared type is a std::function
// specialization as kind=callback and records the signature's argument
// spellings in TemplateArgs.
func classifyCallback(r *model.ExportRecord) {
	cls := typesys.Classify(r.ReturnType)
	if !cls.IsCallable {
		return
	}
	r.Kind = model.KindCallback
	r.TemplateArgs = cls.TemplateArgs
}

// appendPropertyRecords runs C5 over each class's accumulated method
// records and appends the resulting property records to the batch,
// without removing the underlying getter/setter methods.
func appendPropertyRecords(records []*model.ExportRecord, membersByClass map[string][]*model.ExportRecord, opts Options) []*model.ExportRecord {
	classes := make(map[string]*model.ExportRecord)
	for _, r := range records {
		switch r.Kind {
		case model.KindClass, model.KindAbstractClass, model.KindStaticClass, model.KindSingleton:
			classes[r.CppName] = r
		}
	}

	for className, members := range membersByClass {
		owner := classes[className]
		if owner == nil {
			continue
		}

		var methods []property.Method
		byName := make(map[string]*model.ExportRecord)
		for _, m := range members {
			if m.Kind != model.KindMethod {
				continue
			}
			methods = append(methods, property.Method{
				CppName:        m.CppName,
				ReturnType:     m.ReturnType,
				ParameterCount: len(m.ParameterTypes),
			})
			byName[m.CppName] = m
		}

		for _, prop := range property.Recognize(methods) {
			getter := byName[prop.GetterMethod]
			prop.ParentClass = className
			qualifiedOwner := owner.QualifiedName
			if qualifiedOwner == "" {
				qualifiedOwner = className
			}
			prop.QualifiedName = qualifiedOwner + "::" + prop.CppName
			prop.CppNamespace = owner.CppNamespace
			prop.Module = owner.Module
			prop.ScriptNamespace = owner.ScriptNamespace
			if getter != nil {
				prop.SourceFile = getter.SourceFile
				prop.SourceLine = getter.SourceLine
			}
			deriveScriptName(prop, opts.PreferSnakeCase)
			records = append(records, prop)
		}
	}
	return records
}

// appendSTLAuxiliaryRecords emits one kind=stl_container record per
// unique container spelling found among field types and the return
// and parameter types of methods and functions, per spec.md §4.7.6.
func appendSTLAuxiliaryRecords(records []*model.ExportRecord, opts Options) []*model.ExportRecord {
	seen := make(map[string]bool)
	var aux []*model.ExportRecord

	consider := func(spelling string, like *model.ExportRecord) {
		if spelling == "" {
			return
		}
		cls := typesys.Classify(spelling)
		if !cls.IsSTLContainer || seen[cls.Spelling] {
			return
		}
		seen[cls.Spelling] = true
		rec := &model.ExportRecord{
			Kind:            model.KindSTLContainer,
			CppName:         cls.BaseName,
			QualifiedName:   cls.Spelling,
			Module:          like.Module,
			ScriptNamespace: like.ScriptNamespace,
			ContainerKind:   cls.ContainerKind,
			TemplateArgs:    cls.TemplateArgs,
			SourceFile:      like.SourceFile,
			SourceLine:      like.SourceLine,
		}
		deriveScriptName(rec, opts.PreferSnakeCase)
		aux = append(aux, rec)
	}

	for _, r := range records {
		switch r.Kind {
		case model.KindField:
			consider(r.ReturnType, r)
		case model.KindMethod, model.KindStaticMethod, model.KindFunction:
			consider(r.ReturnType, r)
			for _, t := range r.ParameterTypes {
				consider(t, r)
			}
		}
	}
	return append(records, aux...)
}
