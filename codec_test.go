package envelope

import (
	"reflect"
	"testing"
)

func TestCanonicalCodec(t *testing.T) {
	var c Codec = canonicalCodec{}

	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want application/json", c.ContentType())
	}

	data, err := c.Marshal(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Marshal() = %s, want {\"a\":1}", data)
	}

	var out any
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !reflect.DeepEqual(out, map[string]any{"a": float64(1)}) {
		t.Errorf("Unmarshal() = %v", out)
	}
}
