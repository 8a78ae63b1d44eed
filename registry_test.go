package envelope_test

import (
	"testing"

	"github.com/zoobzio/envelope"
	"github.com/zoobzio/envelope/json"
	"github.com/zoobzio/envelope/yaml"
)

func TestUse_Caching(t *testing.T) {
	envelope.Reset() // Clear cache

	p1, err := envelope.Use(json.New())
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	p2, err := envelope.Use(json.New())
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	if p1 != p2 {
		t.Error("Use() should return cached processor")
	}
}

func TestUse_DifferentCodecs(t *testing.T) {
	envelope.Reset()

	p1, _ := envelope.Use(json.New())
	p2, _ := envelope.Use(yaml.New())

	if p1 == p2 {
		t.Error("different content types should get different processors")
	}
}

func TestUse_OptionsApplyOnce(t *testing.T) {
	envelope.Reset()

	fast := envelope.KDFParams{N: 16, R: 8, P: 1, DKLen: envelope.KeySize}
	p1, err := envelope.Use(yaml.New(), envelope.WithKDFParams(fast))
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}
	if p1.KDFParams() != fast {
		t.Errorf("KDFParams() = %+v, want %+v", p1.KDFParams(), fast)
	}

	p2, _ := envelope.Use(yaml.New())
	if p2.KDFParams() != fast {
		t.Error("cached processor should keep its first options")
	}
}

func TestUse_InvalidOptions(t *testing.T) {
	envelope.Reset()

	_, err := envelope.Use(json.New(), envelope.WithKDFParams(envelope.KDFParams{N: 3}))
	if err == nil {
		t.Fatal("Use() should reject invalid params")
	}

	// A failed build is not cached.
	p, err := envelope.Use(json.New())
	if err != nil || p == nil {
		t.Errorf("Use() after failure = %v, %v", p, err)
	}
}

func TestReset(t *testing.T) {
	envelope.Reset()

	p1, _ := envelope.Use(json.New())
	envelope.Reset()
	p2, _ := envelope.Use(json.New())

	if p1 == p2 {
		t.Error("Reset() should clear cached processors")
	}
}
