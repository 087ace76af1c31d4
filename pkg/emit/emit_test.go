package emit

import (
	"strings"
	"testing"

	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

func TestBuildBundle_PartitionsClassesMembersAndFreeRecords(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Widget", ScriptName: "Widget", QualifiedName: "Widget", SourceFile: "widget.h"},
		{Kind: model.KindConstructor, CppName: "Widget", ParentClass: "Widget", QualifiedName: "Widget::Widget", ScriptName: "new"},
		{Kind: model.KindFunction, CppName: "helper", QualifiedName: "helper", ScriptName: "helper", SourceFile: "util.h"},
	}
	bundle := BuildBundle("ui", records)

	if len(bundle.ClassOrder) != 1 || bundle.ClassOrder[0] != "Widget" {
		t.Fatalf("ClassOrder = %v, want [Widget]", bundle.ClassOrder)
	}
	if len(bundle.ClassMembers["Widget"]) != 1 {
		t.Fatalf("ClassMembers[Widget] = %v, want 1 member", bundle.ClassMembers["Widget"])
	}
	if len(bundle.FreeRecords) != 1 || bundle.FreeRecords[0].CppName != "helper" {
		t.Fatalf("FreeRecords = %v, want [helper]", bundle.FreeRecords)
	}
	if len(bundle.Headers) != 2 {
		t.Fatalf("Headers = %v, want 2 unique source files", bundle.Headers)
	}
}

func TestEmit_TrivialClassOrdersEntriesAndOmitsTrailingComma(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Calculator", ScriptName: "Calculator", QualifiedName: "Calculator", SourceFile: "calc.h"},
		{Kind: model.KindConstructor, CppName: "Calculator", ParentClass: "Calculator", QualifiedName: "Calculator::Calculator"},
		{Kind: model.KindMethod, CppName: "add", ParentClass: "Calculator", ScriptName: "add", QualifiedName: "Calculator::add", ParameterTypes: []string{"int", "int"}},
	}
	bundle := BuildBundle("math", records)
	out, err := Emit(bundle, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	if !strings.Contains(out, `register_math_bindings`) {
		t.Errorf("output missing the registration function: %s", out)
	}
	if !strings.Contains(out, `new_usertype<Calculator>("Calculator"`) {
		t.Errorf("output missing the usertype declaration: %s", out)
	}
	ctorIdx := strings.Index(out, "sol::constructors")
	methodIdx := strings.Index(out, `"add"`)
	if ctorIdx < 0 || methodIdx < 0 || ctorIdx > methodIdx {
		t.Errorf("constructors must precede methods: %s", out)
	}
	if strings.Contains(out, "add,\n  );") {
		t.Errorf("final entry should not carry a trailing comma: %s", out)
	}
}

func TestEmit_OperatorOverloadBindsMetamethod(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Vec2", ScriptName: "Vec2", QualifiedName: "Vec2"},
		{Kind: model.KindOperator, CppName: "operator+", ParentClass: "Vec2", QualifiedName: "Vec2::operator+", ScriptMetamethod: "__add"},
	}
	bundle := BuildBundle("math", records)
	out, err := Emit(bundle, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !strings.Contains(out, "sol::meta_function::add, &Vec2::operator+") {
		t.Errorf("output missing operator binding: %s", out)
	}
}

func TestEmit_PropertyUsesReadonlyOrReadwrite(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Widget", ScriptName: "Widget", QualifiedName: "Widget"},
		{Kind: model.KindProperty, CppName: "width", ParentClass: "Widget", ScriptName: "width",
			GetterMethod: "getWidth", PropertyAccess: model.AccessReadOnly},
	}
	bundle := BuildBundle("ui", records)
	out, err := Emit(bundle, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !strings.Contains(out, `sol::readonly_property(&Widget::getWidth)`) {
		t.Errorf("output missing readonly property binding: %s", out)
	}
}

func TestEmit_DeduplicatesMethodsByScriptAndQualifiedName(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindClass, CppName: "Widget", ScriptName: "Widget", QualifiedName: "Widget"},
		{Kind: model.KindMethod, CppName: "resize", ParentClass: "Widget", ScriptName: "resize", QualifiedName: "Widget::resize"},
		{Kind: model.KindMethod, CppName: "resize", ParentClass: "Widget", ScriptName: "resize", QualifiedName: "Widget::resize"},
	}
	bundle := BuildBundle("ui", records)
	out, err := Emit(bundle, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if strings.Count(out, `"resize", &Widget::resize`) != 1 {
		t.Errorf("expected resize bound exactly once, got: %s", out)
	}
}

func TestEmit_NamespaceBootstrapDeclaresLocalOnce(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindFunction, CppName: "helperA", ScriptName: "helperA", QualifiedName: "app::ui::helperA", ScriptNamespace: "app.ui"},
		{Kind: model.KindFunction, CppName: "helperB", ScriptName: "helperB", QualifiedName: "app::ui::helperB", ScriptNamespace: "app.ui"},
	}
	bundle := BuildBundle("app", records)
	out, err := Emit(bundle, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if strings.Count(out, `get_or_create<sol::table>()`) != 2 {
		t.Errorf("want exactly 2 table bootstrap lines (app, app.ui), got: %s", out)
	}
}

func TestEmit_STLContainerStubCarriesVectorMethods(t *testing.T) {
	records := []*model.ExportRecord{
		{Kind: model.KindSTLContainer, CppName: "vector", ScriptName: "IntVector", QualifiedName: "std::vector<int>", ContainerKind: "vector"},
	}
	bundle := BuildBundle("core", records)
	out, err := Emit(bundle, DefaultOptions())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	for _, want := range []string{"size", "empty", "clear", "push_back", "pop_back"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing container method %q: %s", want, out)
		}
	}
}
