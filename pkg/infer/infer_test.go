package infer

import (
	"testing"

	"github.com/zeus-cpp/lua-binding-generator/pkg/diag"
	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

func TestInfer_DerivesScriptNameFromAliasOrConversion(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindFunction, CppName: "DoThing", UserParams: map[string]string{}},
		{Kind: model.KindFunction, CppName: "DoOther", UserParams: map[string]string{"alias": "other"}},
	}
	out := Infer(records, Options{}, diag.New())
	if out[0].ScriptName != "DoThing" {
		t.Errorf("ScriptName = %q, want DoThing (no snake pref)", out[0].ScriptName)
	}
	if out[1].ScriptName != "other" {
		t.Errorf("ScriptName = %q, want other (alias)", out[1].ScriptName)
	}
}

func TestInfer_DetectsSingletonAndStaticClass(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Engine", UserParams: map[string]string{}},
		{Kind: model.KindStaticMethod, CppName: "GetInstance", ParentClass: "Engine", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	var class *model.ExportRecord
	for _, r := range out {
		if r.Kind == model.KindClass {
			class = r
		}
	}
	if class == nil {
		t.Fatal("class record missing")
	}
	if !class.IsSingleton || class.SingletonAccessor != "GetInstance" {
		t.Errorf("class = %+v, want singleton via GetInstance", class)
	}
	if !class.IsStaticClassFlag {
		t.Error("want IsStaticClassFlag true: only a static method and no constructor/instance members")
	}
}

func TestInfer_DetectsAbstractClass(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindAbstractClass, CppName: "Shape", UserParams: map[string]string{}},
		{Kind: model.KindMethod, CppName: "area", ParentClass: "Shape", ReturnType: "double", IsPureVirtual: true, UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	for _, r := range out {
		if r.Kind == model.KindAbstractClass && !r.IsAbstractFlag {
			t.Error("want IsAbstractFlag true for a class with a pure virtual method")
		}
	}
}

func TestInfer_OperatorGetsMetamethod(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindOperator, CppName: "operator+", ParentClass: "Vec2", OperatorSymbol: "+",
			ParameterTypes: []string{"const Vec2&"}, ReturnType: "Vec2", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	if out[0].ScriptMetamethod != "__add" {
		t.Errorf("ScriptMetamethod = %q, want __add", out[0].ScriptMetamethod)
	}
}

func TestInfer_UnaryMinusMapsToUnm(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindOperator, CppName: "operator-", ParentClass: "Vec2", OperatorSymbol: "-",
			ParameterTypes: nil, ReturnType: "Vec2", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	if out[0].ScriptMetamethod != "__unm" {
		t.Errorf("ScriptMetamethod = %q, want __unm", out[0].ScriptMetamethod)
	}
}

func TestInfer_UnmappedOperatorDowngradesToMethod(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindOperator, CppName: "operator+=", ParentClass: "Vec2", OperatorSymbol: "+=",
			ParameterTypes: []string{"const Vec2&"}, ReturnType: "Vec2&", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	if out[0].Kind != model.KindMethod {
		t.Errorf("Kind = %v, want method for an unmapped operator", out[0].Kind)
	}
}

func TestInfer_CallableFieldBecomesCallback(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindField, CppName: "onClick", ParentClass: "Button",
			ReturnType: "std::function<void(int)>", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	if out[0].Kind != model.KindCallback {
		t.Errorf("Kind = %v, want callback", out[0].Kind)
	}
	if len(out[0].TemplateArgs) != 1 || out[0].TemplateArgs[0] != "void(int)" {
		t.Errorf("TemplateArgs = %v", out[0].TemplateArgs)
	}
}

func TestInfer_PropertyRecordAddedAlongsideMethods(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Widget", UserParams: map[string]string{}},
		{Kind: model.KindMethod, CppName: "getWidth", ParentClass: "Widget", ReturnType: "int",
			QualifiedName: "Widget::getWidth", SourceFile: "w.h", SourceLine: 10, UserParams: map[string]string{}},
		{Kind: model.KindMethod, CppName: "setWidth", ParentClass: "Widget", ReturnType: "void",
			ParameterTypes: []string{"int"}, QualifiedName: "Widget::setWidth", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())

	var props, methods int
	for _, r := range out {
		switch r.Kind {
		case model.KindProperty:
			props++
			if r.PropertyAccess != model.AccessReadWrite {
				t.Errorf("PropertyAccess = %v, want readwrite", r.PropertyAccess)
			}
			if r.ParentClass != "Widget" {
				t.Errorf("ParentClass = %q, want Widget", r.ParentClass)
			}
		case model.KindMethod:
			methods++
		}
	}
	if props != 1 {
		t.Errorf("property count = %d, want 1", props)
	}
	if methods != 2 {
		t.Errorf("method count = %d, want 2 (getter/setter still exported)", methods)
	}
}

func TestInfer_STLContainerFieldProducesAuxiliaryRecord(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindField, CppName: "items", ParentClass: "Inventory",
			ReturnType: "std::vector<int>", SourceFile: "inv.h", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	var found bool
	for _, r := range out {
		if r.Kind == model.KindSTLContainer {
			found = true
			if r.ContainerKind != "vector" {
				t.Errorf("ContainerKind = %q, want vector", r.ContainerKind)
			}
		}
	}
	if !found {
		t.Error("want an auxiliary stl_container record for std::vector<int>")
	}
}

func TestInfer_DropsInvalidRecordsAndReportsDiagnostic(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindMethod, CppName: "orphan", UserParams: map[string]string{}}, // no ParentClass: invalid
	}
	diags := diag.New()
	out := Infer(records, Options{}, diags)
	if len(out) != 0 {
		t.Errorf("out = %v, want empty (invalid record dropped)", out)
	}
	entries := diags.Entries()
	if len(entries) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one entry", entries)
	}
}

func TestInfer_ScriptNamespaceFromCppNamespace(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindFunction, CppName: "helper", CppNamespace: "app::ui", UserParams: map[string]string{}},
	}
	out := Infer(records, Options{}, diag.New())
	if out[0].ScriptNamespace != "app.ui" {
		t.Errorf("ScriptNamespace = %q, want app.ui", out[0].ScriptNamespace)
	}
}
