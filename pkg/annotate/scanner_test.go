package annotate

import "testing"

const sampleSource = `#include "widget.h"

EXPORT_LUA_MODULE("ui")

class EXPORT_LUA_CLASS(Widget) Widget {
public:
    EXPORT_LUA_METHOD(resize)
    void resize(int w, int h);
};
`

func TestScan_FindsAllOccurrencesInOrder(t *testing.T) {
	occs := Scan(sampleSource)
	if len(occs) != 3 {
		t.Fatalf("Scan() found %d occurrences, want 3", len(occs))
	}
	if occs[0].Line != 3 {
		t.Errorf("occs[0].Line = %d, want 3", occs[0].Line)
	}
	if occs[1].Line != 5 {
		t.Errorf("occs[1].Line = %d, want 5", occs[1].Line)
	}
	if occs[2].Line != 7 {
		t.Errorf("occs[2].Line = %d, want 7", occs[2].Line)
	}
}

func TestFingerprints(t *testing.T) {
	fps := Fingerprints(sampleSource)
	if len(fps) != 3 {
		t.Fatalf("Fingerprints() returned %d entries, want 3", len(fps))
	}
	if fps[0] != `EXPORT_LUA_MODULE("ui")` {
		t.Errorf("fps[0] = %q", fps[0])
	}
}

func TestModuleLabel(t *testing.T) {
	if got := ModuleLabel(sampleSource); got != "ui" {
		t.Errorf("ModuleLabel() = %q, want ui", got)
	}
}

func TestModuleLabel_AbsentReturnsEmpty(t *testing.T) {
	if got := ModuleLabel("class Foo {};"); got != "" {
		t.Errorf("ModuleLabel() = %q, want empty", got)
	}
}

func TestMacroKind(t *testing.T) {
	cases := map[string]string{
		`EXPORT_LUA_CLASS(Widget)`:   "class",
		`EXPORT_LUA_METHOD(resize)`:  "method",
		`EXPORT_LUA_MODULE("ui")`:    "module",
	}
	for raw, want := range cases {
		if got := MacroKind(raw); got != want {
			t.Errorf("MacroKind(%q) = %q, want %q", raw, got, want)
		}
	}
}
