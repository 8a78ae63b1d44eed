package json

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/zoobzio/envelope"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	c := New()

	kdf := envelope.DefaultKDFParams()
	original := envelope.Document{
		Encryption: envelope.Encryption{
			Type:  envelope.SchemeSecretbox,
			Salt:  "c2FsdC1zYWx0LXNhbHQ=",
			Nonce: "AAECAwQFBgcICQoLDA0ODxAREhMUFRYX",
			KDF:   &kdf,
		},
		Data: "Ym94LWJveC1ib3g=",
	}

	data, err := c.Marshal(&original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored envelope.Document
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored.Encryption.Type != original.Encryption.Type {
		t.Errorf("Type = %q, want %q", restored.Encryption.Type, original.Encryption.Type)
	}
	if restored.Encryption.Salt != original.Encryption.Salt {
		t.Errorf("Salt = %q, want %q", restored.Encryption.Salt, original.Encryption.Salt)
	}
	if restored.Encryption.Nonce != original.Encryption.Nonce {
		t.Errorf("Nonce = %q, want %q", restored.Encryption.Nonce, original.Encryption.Nonce)
	}
	if restored.Encryption.KDF == nil || *restored.Encryption.KDF != kdf {
		t.Errorf("KDF = %+v, want %+v", restored.Encryption.KDF, kdf)
	}
	if restored.Data != original.Data {
		t.Errorf("Data = %v, want %v", restored.Data, original.Data)
	}
	if err := restored.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestPlaintextDocumentRoundTrip(t *testing.T) {
	c := New()

	original := envelope.Document{
		Encryption: envelope.Encryption{Type: envelope.SchemePlaintext},
		Data:       map[string]any{"test": "data"},
	}

	data, err := c.Marshal(&original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored envelope.Document
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored.Encryption.KDF != nil || restored.Encryption.Salt != "" || restored.Encryption.Nonce != "" {
		t.Errorf("plaintext header gained fields: %+v", restored.Encryption)
	}

	m, ok := restored.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]any", restored.Data)
	}
	if m["test"] != "data" {
		t.Errorf("Data[test] = %v, want %q", m["test"], "data")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	err := c.Unmarshal([]byte("invalid json"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestNewWithNumbers(t *testing.T) {
	c := NewWithNumbers()

	var v map[string]any
	if err := c.Unmarshal([]byte(`{"big":9007199254740993}`), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	n, ok := v["big"].(json.Number)
	if !ok {
		t.Fatalf("big type = %T, want json.Number", v["big"])
	}
	if n.String() != "9007199254740993" {
		t.Errorf("big = %s, want 9007199254740993", n)
	}
}

func TestLegacyScryptField(t *testing.T) {
	c := New()

	input := `{"encryption":{"type":"secretbox","salt":"s","nonce":"bg==","scrypt":{"N":1024,"r":8,"p":1,"dkLen":32,"interruptStep":0}},"data":"ZA=="}`

	var doc envelope.Document
	if err := c.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if doc.Encryption.KDF == nil {
		t.Fatal("legacy scrypt field should populate KDF")
	}
	if doc.Encryption.KDF.N != 1024 {
		t.Errorf("KDF.N = %d, want 1024", doc.Encryption.KDF.N)
	}

	out, err := c.Marshal(&doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(out), `"kdfParams"`) || strings.Contains(string(out), `"scrypt"`) {
		t.Errorf("Marshal() = %s, want kdfParams and no scrypt field", out)
	}
}
