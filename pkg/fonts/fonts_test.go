package fonts

import "testing"

func TestBuiltin(t *testing.T) {
	for _, face := range BuiltinFaces() {
		data, ok := Builtin(face)
		if !ok {
			t.Errorf("Builtin(%q) not found", face)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Builtin(%q) returned empty data", face)
		}
	}

	if _, ok := Builtin("Comic Sans"); ok {
		t.Error("Builtin should not know Comic Sans")
	}
}

func TestBuiltinFacesOrder(t *testing.T) {
	faces := BuiltinFaces()
	if len(faces) != 4 {
		t.Fatalf("BuiltinFaces() len = %d, want 4", len(faces))
	}
	if faces[0] != GoRegular {
		t.Errorf("first face = %q, want %q", faces[0], GoRegular)
	}
}

func TestCSSFamily(t *testing.T) {
	got := CSSFamily("Go")
	want := "'Go', " + FallbackFontFamily
	if got != want {
		t.Errorf("CSSFamily() = %q, want %q", got, want)
	}
}
