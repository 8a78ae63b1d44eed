package envelope

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestEncryption_Validate(t *testing.T) {
	params := fastKDF()

	tests := []struct {
		name      string
		enc       Encryption
		wantErr   error
		wantField string
	}{
		{
			name: "secretbox complete",
			enc:  Encryption{Type: SchemeSecretbox, Salt: "s", Nonce: "n", KDF: &params},
		},
		{
			name: "plaintext bare",
			enc:  Encryption{Type: SchemePlaintext},
		},
		{
			name:      "secretbox missing salt",
			enc:       Encryption{Type: SchemeSecretbox, Nonce: "n", KDF: &params},
			wantErr:   ErrInvalidDocument,
			wantField: "salt",
		},
		{
			name: "secretbox without header nonce",
			enc:  Encryption{Type: SchemeSecretbox, Salt: "s", KDF: &params},
		},
		{
			name:      "secretbox missing kdf",
			enc:       Encryption{Type: SchemeSecretbox, Salt: "s", Nonce: "n"},
			wantErr:   ErrInvalidDocument,
			wantField: "kdfParams",
		},
		{
			name:      "plaintext with salt",
			enc:       Encryption{Type: SchemePlaintext, Salt: "s"},
			wantErr:   ErrInvalidDocument,
			wantField: "salt",
		},
		{
			name:      "plaintext with kdf",
			enc:       Encryption{Type: SchemePlaintext, KDF: &params},
			wantErr:   ErrInvalidDocument,
			wantField: "kdfParams",
		},
		{
			name:      "unknown",
			enc:       Encryption{Type: "rot13"},
			wantErr:   ErrUnknownScheme,
			wantField: "type",
		},
		{
			name:      "empty type",
			enc:       Encryption{},
			wantErr:   ErrUnknownScheme,
			wantField: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.enc.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			var docErr *DocumentError
			if !errors.As(err, &docErr) {
				t.Fatalf("Validate() error = %T, want *DocumentError", err)
			}
			if docErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", docErr.Field, tt.wantField)
			}
		})
	}
}

func TestDocument_ValidateData(t *testing.T) {
	params := fastKDF()
	header := Encryption{Type: SchemeSecretbox, Salt: "s", Nonce: "n", KDF: &params}

	if err := (&Document{Encryption: header, Data: "blob"}).Validate(); err != nil {
		t.Errorf("Validate(string data) error: %v", err)
	}
	if err := (&Document{Encryption: header, Data: map[string]any{}}).Validate(); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("Validate(map data) error = %v, want ErrInvalidDocument", err)
	}

	// Plaintext data may be anything.
	if err := (&Document{Encryption: Encryption{Type: SchemePlaintext}, Data: []any{1, 2}}).Validate(); err != nil {
		t.Errorf("Validate(plaintext) error: %v", err)
	}
}

func TestDocument_Ciphertext(t *testing.T) {
	params := fastKDF()
	doc := &Document{Encryption: Encryption{Type: SchemeSecretbox, Salt: "s", Nonce: "n", KDF: &params}, Data: "blob"}

	got, ok := doc.Ciphertext()
	if !ok || got != "blob" {
		t.Errorf("Ciphertext() = %q, %v; want blob, true", got, ok)
	}

	plain := &Document{Encryption: Encryption{Type: SchemePlaintext}, Data: "blob"}
	if _, ok := plain.Ciphertext(); ok {
		t.Error("plaintext documents have no ciphertext")
	}
}

func TestEncryption_MarshalJSON(t *testing.T) {
	params := DefaultKDFParams()
	doc := Document{
		Encryption: Encryption{Type: SchemeSecretbox, Salt: "s", Nonce: "bm9uY2U=", KDF: &params},
		Data:       "ZGF0YQ==",
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"encryption":{"type":"secretbox","salt":"s","nonce":"bm9uY2U=",` +
		`"kdfParams":{"N":16384,"r":8,"p":1,"dkLen":32,"interruptStep":0}},"data":"ZGF0YQ=="}`
	if string(data) != want {
		t.Errorf("Marshal() = %s\nwant %s", data, want)
	}
}

func TestEncryption_MarshalJSONPlaintext(t *testing.T) {
	doc := Document{Encryption: Encryption{Type: SchemePlaintext}, Data: map[string]any{"a": 1}}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"encryption":{"type":"plaintext"},"data":{"a":1}}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestEncryption_UnmarshalJSONLegacyField(t *testing.T) {
	var enc Encryption
	err := json.Unmarshal([]byte(`{"type":"secretbox","salt":"s","nonce":"n","scrypt":{"N":1024,"r":8,"p":1}}`), &enc)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if enc.KDF == nil || enc.KDF.N != 1024 {
		t.Fatalf("KDF = %+v, want N=1024 from legacy field", enc.KDF)
	}
	if enc.Type != SchemeSecretbox || enc.Salt != "s" || enc.Nonce != "n" {
		t.Errorf("Unmarshal() = %+v, lost header fields", enc)
	}

	// Re-encoding always uses the current name.
	data, _ := json.Marshal(enc)
	if strings.Contains(string(data), "scrypt") || !strings.Contains(string(data), "kdfParams") {
		t.Errorf("Marshal() = %s, want kdfParams only", data)
	}
}

func TestEncryption_UnmarshalJSONPrefersCurrentField(t *testing.T) {
	var enc Encryption
	err := json.Unmarshal([]byte(`{"type":"secretbox","kdfParams":{"N":16},"scrypt":{"N":1024}}`), &enc)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if enc.KDF == nil || enc.KDF.N != 16 {
		t.Errorf("KDF = %+v, want kdfParams to win", enc.KDF)
	}
}

func TestEncryption_UnmarshalJSONInvalid(t *testing.T) {
	var enc Encryption
	if err := json.Unmarshal([]byte(`{"type":5}`), &enc); err == nil {
		t.Error("Unmarshal() should reject a non-string type")
	}
}
