package annotate

import "testing"

func TestParse_ClassNoAttrs(t *testing.T) {
	p, err := Parse("lua_export_class:Widget")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Kind != "class" || p.Primary != "Widget" {
		t.Errorf("Parse() = %+v, want kind=class primary=Widget", p)
	}
	if len(p.Attrs) != 0 {
		t.Errorf("Attrs = %v, want empty", p.Attrs)
	}
}

func TestParse_FlagStyleAttr(t *testing.T) {
	p, err := Parse("lua_export_method:update:const")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Attrs["const"] != "true" {
		t.Errorf("Attrs[const] = %q, want true", p.Attrs["const"])
	}
}

func TestParse_KeyValueAttrs(t *testing.T) {
	p, err := Parse("lua_export_property:width:readonly, getter=getWidth")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Attrs["readonly"] != "true" {
		t.Errorf("Attrs[readonly] = %q, want true", p.Attrs["readonly"])
	}
	if p.Attrs["getter"] != "getWidth" {
		t.Errorf("Attrs[getter] = %q, want getWidth", p.Attrs["getter"])
	}
}

func TestParse_NoPrimary(t *testing.T) {
	p, err := Parse("lua_export_namespace::alias=ui")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Primary != "" {
		t.Errorf("Primary = %q, want empty", p.Primary)
	}
	if p.Attrs["alias"] != "ui" {
		t.Errorf("Attrs[alias] = %q, want ui", p.Attrs["alias"])
	}
}

func TestParse_TemplateArgValuePreservesCommas(t *testing.T) {
	p, err := Parse("lua_export_field:items:container=std::map<int, std::string>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := p.Attrs["container"]; got != "std::map<int, std::string>" {
		t.Errorf("Attrs[container] = %q, want std::map<int, std::string>", got)
	}
}

func TestParse_UnrecognizedKind(t *testing.T) {
	if _, err := Parse("lua_export_bogus:Thing"); err == nil {
		t.Error("Parse() should reject an unrecognized kind suffix")
	}
}

func TestParse_MissingPrefix(t *testing.T) {
	if _, err := Parse("some_other_attr:Thing"); err == nil {
		t.Error("Parse() should reject a payload with no lua_export_ prefix")
	}
}

func TestParse_MalformedAttrPair(t *testing.T) {
	if _, err := Parse("lua_export_class:Widget:=oops"); err == nil {
		t.Error("Parse() should reject an attr pair with an empty key")
	}
}

func TestParseMacroArgs_PrimaryOnly(t *testing.T) {
	p, err := ParseMacroArgs("class", "Calculator")
	if err != nil {
		t.Fatalf("ParseMacroArgs() error = %v", err)
	}
	if p.Primary != "Calculator" || len(p.Attrs) != 0 {
		t.Errorf("ParseMacroArgs() = %+v", p)
	}
}

func TestParseMacroArgs_NoPrimaryJustAttrs(t *testing.T) {
	p, err := ParseMacroArgs("property", "alias=value, readonly")
	if err != nil {
		t.Fatalf("ParseMacroArgs() error = %v", err)
	}
	if p.Primary != "" {
		t.Errorf("Primary = %q, want empty", p.Primary)
	}
	if p.Attrs["alias"] != "value" || p.Attrs["readonly"] != "true" {
		t.Errorf("Attrs = %v", p.Attrs)
	}
}

func TestParseMacroArgs_Empty(t *testing.T) {
	p, err := ParseMacroArgs("constructor", "")
	if err != nil {
		t.Fatalf("ParseMacroArgs() error = %v", err)
	}
	if p.Primary != "" || len(p.Attrs) != 0 {
		t.Errorf("ParseMacroArgs() = %+v, want empty", p)
	}
}

func TestParseMacroArgs_PrimaryThenAttrs(t *testing.T) {
	p, err := ParseMacroArgs("method", "resize, const")
	if err != nil {
		t.Fatalf("ParseMacroArgs() error = %v", err)
	}
	if p.Primary != "resize" {
		t.Errorf("Primary = %q, want resize", p.Primary)
	}
	if p.Attrs["const"] != "true" {
		t.Errorf("Attrs[const] = %q, want true", p.Attrs["const"])
	}
}

func TestHasRecognizedPrefix(t *testing.T) {
	if !HasRecognizedPrefix("  lua_export_class:Widget") {
		t.Error("HasRecognizedPrefix() should trim leading whitespace before matching")
	}
	if HasRecognizedPrefix("deprecated") {
		t.Error("HasRecognizedPrefix() should reject unrelated attributes")
	}
}
