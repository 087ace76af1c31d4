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

// Package model defines the data types that flow through the binding
// generator pipeline: ExportRecord (the unit of information produced by
// extraction and inference), FileInfo and DependencyNode (the cache and
// dependency-graph rows), and ModuleBundle (the transient grouping the
// emitter consumes).
package model

// Kind enumerates the ExportRecord variants. The emitter dispatches on
// Kind through a closed switch; adding a kind is a breaking change and
// must extend both the annotation table (pkg/annotate) and the emitter
// dispatch (pkg/emit).
type Kind string

const (
	KindClass            Kind = "class"
	KindAbstractClass    Kind = "abstract_class"
	KindStaticClass      Kind = "static_class"
	KindSingleton        Kind = "singleton"
	KindMethod           Kind = "method"
	KindStaticMethod     Kind = "static_method"
	KindConstructor      Kind = "constructor"
	KindProperty         Kind = "property"
	KindField            Kind = "field"
	KindFunction         Kind = "function"
	KindEnum             Kind = "enum"
	KindConstant         Kind = "constant"
	KindVariable         Kind = "variable"
	KindOperator         Kind = "operator"
	KindTemplateClass    Kind = "template_class"
	KindTemplateInstance Kind = "template_instance"
	KindNamespace        Kind = "namespace"
	KindModule           Kind = "module"
	KindSTLContainer     Kind = "stl_container"
	KindCallback         Kind = "callback"
	KindInherit          Kind = "inherit"
)

// PropertyAccess is the script-visible access mode of a property record.
type PropertyAccess string

const (
	AccessNone      PropertyAccess = "none"
	AccessReadOnly  PropertyAccess = "readonly"
	AccessReadWrite PropertyAccess = "readwrite"
	AccessWriteOnly PropertyAccess = "writeonly"
)

// EnumValue is one (name, integer) pair of an enum declaration.
type EnumValue struct {
	Name  string
	Value int64
}

// ExportRecord is the unit of information flowing through the pipeline.
// It is a plain value: no field holds a reference into the AST that
// produced it. Every AST-derived fact is copied into a string, int, or
// bool before the record leaves C6.
type ExportRecord struct {
	Kind Kind

	CppName      string
	ScriptName   string
	QualifiedName string

	CppNamespace    string
	ScriptNamespace string

	Module      string
	ParentClass string

	BaseClasses []string

	ReturnType     string
	ParameterTypes []string
	ParameterNames []string

	IsStatic      bool
	IsConst       bool
	IsVirtual     bool
	IsPureVirtual bool

	PropertyAccess PropertyAccess
	GetterMethod   string
	SetterMethod   string

	ContainerKind string
	TemplateArgs  []string

	OperatorSymbol    string
	ScriptMetamethod  string

	EnumValues []EnumValue

	UserParams map[string]string

	SourceFile string
	SourceLine int

	// Singleton/static/abstract class facts, populated by C7.
	IsSingleton     bool
	SingletonAccessor string
	IsStaticClassFlag bool
	IsAbstractFlag    bool
}

// Validate checks the §3.2 invariants that apply to every record,
// plus the property invariant that at least one of getter or setter
// is present.
func (r *ExportRecord) Validate() error {
	if r.CppName == "" {
		return errEmptyField("cpp_name")
	}
	if r.Kind == "" {
		return errEmptyField("kind")
	}
	if isMemberKind(r.Kind) && r.ParentClass == "" {
		return errMemberWithoutParent(r.Kind, r.CppName)
	}
	if r.QualifiedName != "" {
		if r.CppNamespace != "" && !hasNamespacePrefix(r.QualifiedName, r.CppNamespace) {
			return errInconsistentQualifiedName(r.QualifiedName, r.CppNamespace)
		}
		if r.ParentClass != "" && !containsSegment(r.QualifiedName, r.ParentClass) {
			return errInconsistentQualifiedName(r.QualifiedName, r.ParentClass)
		}
	}
	if r.Kind == KindProperty && r.GetterMethod == "" && r.SetterMethod == "" {
		return errPropertyWithoutAccessor(r.CppName)
	}
	return nil
}

func isMemberKind(k Kind) bool {
	switch k {
	case KindMethod, KindStaticMethod, KindConstructor, KindProperty, KindField:
		return true
	}
	return false
}
