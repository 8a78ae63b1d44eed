package envelope

import (
	"encoding/json"
)

// Encryption is the scheme header of an envelope.
//
// Type selects the variant. A secretbox header carries Salt and KDF, and
// usually Nonce; a plaintext header carries none of them. Validate enforces
// this. The header Nonce is informational: opening reads the nonce from the
// first NonceSize bytes of the data, so envelopes without it still open.
type Encryption struct {
	Type  Scheme     `json:"type" yaml:"type" msgpack:"type" bson:"type"`
	Salt  string     `json:"salt,omitempty" yaml:"salt,omitempty" msgpack:"salt,omitempty" bson:"salt,omitempty"`
	Nonce string     `json:"nonce,omitempty" yaml:"nonce,omitempty" msgpack:"nonce,omitempty" bson:"nonce,omitempty"`
	KDF   *KDFParams `json:"kdfParams,omitempty" yaml:"kdfParams,omitempty" msgpack:"kdfParams,omitempty" bson:"kdfParams,omitempty"`
}

// UnmarshalJSON decodes a header, accepting the legacy "scrypt" field name
// for the KDF params written by earlier versions.
func (e *Encryption) UnmarshalJSON(data []byte) error {
	type plain Encryption
	aux := struct {
		plain
		Scrypt *KDFParams `json:"scrypt,omitempty"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*e = Encryption(aux.plain)
	if e.KDF == nil && aux.Scrypt != nil {
		e.KDF = aux.Scrypt
	}
	return nil
}

// Validate checks the header carries exactly the fields its scheme needs.
func (e Encryption) Validate() error {
	switch e.Type {
	case SchemeSecretbox:
		if e.Salt == "" {
			return newDocumentError(ErrInvalidDocument, e.Type, "salt")
		}
		if e.KDF == nil {
			return newDocumentError(ErrInvalidDocument, e.Type, "kdfParams")
		}
		return nil
	case SchemePlaintext:
		if e.Salt != "" {
			return newDocumentError(ErrInvalidDocument, e.Type, "salt")
		}
		if e.Nonce != "" {
			return newDocumentError(ErrInvalidDocument, e.Type, "nonce")
		}
		if e.KDF != nil {
			return newDocumentError(ErrInvalidDocument, e.Type, "kdfParams")
		}
		return nil
	default:
		return newDocumentError(ErrUnknownScheme, e.Type, "type")
	}
}

// Document is a self-describing envelope.
//
// For SchemePlaintext, Data is the original value. For SchemeSecretbox, Data
// is a base64 string of nonce || ciphertext-with-tag.
type Document struct {
	Encryption Encryption `json:"encryption" yaml:"encryption" msgpack:"encryption" bson:"encryption"`
	Data       any        `json:"data" yaml:"data" msgpack:"data" bson:"data"`
}

// Validate checks the header and that Data has the type the scheme implies.
func (d *Document) Validate() error {
	if err := d.Encryption.Validate(); err != nil {
		return err
	}
	if d.Encryption.Type == SchemeSecretbox {
		if _, ok := d.Data.(string); !ok {
			return newDocumentError(ErrInvalidDocument, d.Encryption.Type, "data")
		}
	}
	return nil
}

// Ciphertext returns the base64 blob of a secretbox document.
func (d *Document) Ciphertext() (string, bool) {
	if d.Encryption.Type != SchemeSecretbox {
		return "", false
	}
	s, ok := d.Data.(string)
	return s, ok
}

// Sealed is the result of building an envelope.
type Sealed struct {
	// Document is the envelope.
	Document *Document

	// Salt is the salt the document was built with, either the caller's or
	// a freshly generated one. It is reported even for plaintext documents.
	Salt string
}

// Options configure building one envelope.
type Options struct {
	SecretOptions

	// Scheme selects the envelope variant. Empty means SchemeSecretbox.
	Scheme Scheme
}
