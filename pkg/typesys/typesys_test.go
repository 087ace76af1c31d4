package typesys

import (
	"reflect"
	"testing"
)

func TestClassify_Primitive(t *testing.T) {
	c := Classify("int")
	if c.IsSTLContainer || c.IsSmartPointer || c.IsCallable {
		t.Errorf("Classify(int) = %+v, want no flags set", c)
	}
	if c.BaseName != "int" {
		t.Errorf("BaseName = %q, want int", c.BaseName)
	}
}

func TestClassify_VectorContainer(t *testing.T) {
	c := Classify("std::vector<int>")
	if !c.IsSTLContainer || c.ContainerKind != "vector" {
		t.Errorf("Classify(vector) = %+v", c)
	}
	if !reflect.DeepEqual(c.TemplateArgs, []string{"int"}) {
		t.Errorf("TemplateArgs = %v, want [int]", c.TemplateArgs)
	}
}

func TestClassify_MapContainerWithTwoArgs(t *testing.T) {
	c := Classify("std::map<int, std::string>")
	if !c.IsSTLContainer || c.ContainerKind != "map" {
		t.Errorf("Classify(map) = %+v", c)
	}
	if !reflect.DeepEqual(c.TemplateArgs, []string{"int", "std::string"}) {
		t.Errorf("TemplateArgs = %v, want [int std::string]", c.TemplateArgs)
	}
}

func TestClassify_UnorderedMapNormalizesToMapKind(t *testing.T) {
	c := Classify("std::unordered_map<int, int>")
	if c.ContainerKind != "map" {
		t.Errorf("ContainerKind = %q, want map", c.ContainerKind)
	}
}

func TestClassify_SharedPtr(t *testing.T) {
	c := Classify("std::shared_ptr<Widget>")
	if !c.IsSmartPointer || c.PointerKind != "shared_ptr" {
		t.Errorf("Classify(shared_ptr) = %+v", c)
	}
	if got := c.Pointee(); got != "Widget" {
		t.Errorf("Pointee() = %q, want Widget", got)
	}
}

func TestClassify_Callable(t *testing.T) {
	c := Classify("std::function<void(int)>")
	if !c.IsCallable {
		t.Errorf("Classify(function) = %+v, want IsCallable", c)
	}
}

func TestClassify_ConstReferenceUserType(t *testing.T) {
	c := Classify("const Widget&")
	if c.IsSTLContainer || c.IsSmartPointer || c.IsCallable {
		t.Errorf("Classify(const Widget&) = %+v, want no flags set", c)
	}
	if c.BaseName != "Widget" {
		t.Errorf("BaseName = %q, want Widget", c.BaseName)
	}
}

func TestClassify_NoTemplateArgsForNonTemplateType(t *testing.T) {
	c := Classify("Widget")
	if c.TemplateArgs != nil {
		t.Errorf("TemplateArgs = %v, want nil", c.TemplateArgs)
	}
}
