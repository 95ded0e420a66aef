package domain_test

import (
	"encoding/json"
	"testing"

	"go.trai.ch/memo/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("x")
	is2 := domain.NewInternedString("x")

	if is1.Value() != is2.Value() {
		t.Errorf("Expected handles to be equal for identical strings, got %v and %v", is1.Value(), is2.Value())
	}
	if is1.String() != "x" {
		t.Errorf("Expected String() to return %q, got %q", "x", is1.String())
	}
}

func TestInternedStringJSON(t *testing.T) {
	original := domain.NewInternedString("result_table")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal InternedString: %v", err)
	}
	if string(data) != `"result_table"` {
		t.Errorf("Expected JSON %q, got %q", `"result_table"`, string(data))
	}

	var unmarshaled domain.InternedString
	if err := json.Unmarshal(data, &unmarshaled); err != nil {
		t.Fatalf("Failed to unmarshal InternedString: %v", err)
	}
	if unmarshaled.String() != original.String() {
		t.Errorf("Expected unmarshaled string %q, got %q", original.String(), unmarshaled.String())
	}
}

func TestInternedStringAsMapKey(t *testing.T) {
	// EnvironmentDiff serializes its Set map keyed by InternedString; the
	// key must round-trip through JSON object keys.
	m := map[domain.InternedString]int{
		domain.NewInternedString("x"): 1,
		domain.NewInternedString("y"): 2,
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Failed to marshal map: %v", err)
	}

	var back map[domain.InternedString]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to unmarshal map: %v", err)
	}
	if back[domain.NewInternedString("x")] != 1 || back[domain.NewInternedString("y")] != 2 {
		t.Errorf("Map did not round-trip: %v", back)
	}
}

func TestNewInternedStrings(t *testing.T) {
	names := []string{"x", "y", "x"}

	interned := domain.NewInternedStrings(names)

	if len(interned) != len(names) {
		t.Fatalf("Expected %d interned strings, got %d", len(names), len(interned))
	}
	for i, expected := range names {
		if interned[i].String() != expected {
			t.Errorf("Expected interned string at index %d to be %q, got %q", i, expected, interned[i].String())
		}
	}
	if interned[0].Value() != interned[2].Value() {
		t.Errorf("Expected handles to be equal for identical strings")
	}
}
