package canonical

import (
	"testing"

	"github.com/datafund/swarm-provenance-SDK/pkg/codec"
)

func TestMarshal_Sorting(t *testing.T) {
	input := map[string]any{
		"c": "3",
		"a": "1",
		"b": "2",
	}
	expected := `{"a":"1","b":"2","c":"3"}`

	b, err := Marshal(input)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, string(b))
	}
}

func TestMarshal_NestedSorting(t *testing.T) {
	input := map[string]any{
		"z": map[string]any{
			"y": "foo",
			"x": "bar",
		},
		"a": 1,
	}
	expected := `{"a":1,"z":{"x":"bar","y":"foo"}}`

	b, err := Marshal(input)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, string(b))
	}
}

func TestMarshal_ArrayOrderPreserved(t *testing.T) {
	input := map[string]any{
		"fields": []string{"stamp_id", "data", "content_hash"},
	}
	expected := `{"fields":["stamp_id","data","content_hash"]}`

	b, err := Marshal(input)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, string(b))
	}
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	input := map[string]string{
		"html": "<b>bold</b> &",
	}
	expected := `{"html":"<b>bold</b> &"}`

	b, err := Marshal(input)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, string(b))
	}
}

func TestMarshal_BareString(t *testing.T) {
	b, err := Marshal("SGVsbG8=")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `"SGVsbG8="` {
		t.Errorf("expected %q, got %s", `"SGVsbG8="`, string(b))
	}
}

func TestHash_MatchesDigestOfCanonicalForm(t *testing.T) {
	input := map[string]string{"b": "2", "a": "1"}
	expected := codec.SHA256HexString(`{"a":"1","b":"2"}`)

	got, err := Hash(input)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestHash_KeyOrderIndependent(t *testing.T) {
	type swapped struct {
		B string `json:"b"`
		A string `json:"a"`
	}
	first, err := Hash(map[string]string{"a": "1", "b": "2"})
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := Hash(swapped{B: "2", A: "1"})
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first != second {
		t.Errorf("hashes differ across key orderings: %s vs %s", first, second)
	}
}
