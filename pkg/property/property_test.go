package property

import (
	"testing"

	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

func TestRecognize_GetterOnlyIsReadonly(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "getValue", ReturnType: "int", ParameterCount: 0},
	})
	if len(recs) != 1 {
		t.Fatalf("Recognize() returned %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.CppName != "value" {
		t.Errorf("CppName = %q, want value", r.CppName)
	}
	if r.PropertyAccess != model.AccessReadOnly {
		t.Errorf("PropertyAccess = %q, want readonly", r.PropertyAccess)
	}
	if r.GetterMethod != "getValue" || r.SetterMethod != "" {
		t.Errorf("getter/setter = %q/%q", r.GetterMethod, r.SetterMethod)
	}
}

func TestRecognize_GetterWithMatchingSetterIsReadwrite(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "getValue", ReturnType: "int", ParameterCount: 0},
		{CppName: "setValue", ReturnType: "void", ParameterCount: 1},
	})
	if len(recs) != 1 {
		t.Fatalf("Recognize() returned %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.PropertyAccess != model.AccessReadWrite {
		t.Errorf("PropertyAccess = %q, want readwrite", r.PropertyAccess)
	}
	if r.SetterMethod != "setValue" {
		t.Errorf("SetterMethod = %q, want setValue", r.SetterMethod)
	}
}

func TestRecognize_SetterOnlyProducesNoProperty(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "setValue", ReturnType: "void", ParameterCount: 1},
	})
	if len(recs) != 0 {
		t.Errorf("Recognize() returned %d records, want 0 for setter-only", len(recs))
	}
}

func TestRecognize_IsPrefixGetter(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "isAbstract", ReturnType: "bool", ParameterCount: 0},
	})
	if len(recs) != 1 || recs[0].CppName != "abstract" {
		t.Fatalf("Recognize() = %+v, want property abstract", recs)
	}
}

func TestRecognize_VoidReturnIsNotAGetter(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "getReady", ReturnType: "void", ParameterCount: 0},
	})
	if len(recs) != 0 {
		t.Errorf("Recognize() returned %d records for a void getX, want 0", len(recs))
	}
}

func TestRecognize_SetterWithWrongArityIsIgnored(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "getValue", ReturnType: "int", ParameterCount: 0},
		{CppName: "setValue", ReturnType: "void", ParameterCount: 2},
	})
	if len(recs) != 1 || recs[0].PropertyAccess != model.AccessReadOnly {
		t.Fatalf("Recognize() = %+v, want readonly (setter arity mismatch ignored)", recs)
	}
}

func TestRecognize_PreservesFirstSeenOrder(t *testing.T) {
	recs := Recognize([]Method{
		{CppName: "getHeight", ReturnType: "int", ParameterCount: 0},
		{CppName: "getWidth", ReturnType: "int", ParameterCount: 0},
	})
	if len(recs) != 2 || recs[0].CppName != "height" || recs[1].CppName != "width" {
		t.Fatalf("Recognize() order = %+v, want height then width", recs)
	}
}
