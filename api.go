// Package envelope provides self-describing encrypted documents.
//
// An envelope stores structured data either in the clear or sealed with
// NaCl secretbox (XSalsa20-Poly1305), together with everything an opener
// needs to recover it: the scheme tag, the salt, the nonce and the scrypt
// parameters used to derive the key. No configuration has to travel
// alongside a stored envelope.
//
// # Wire Format
//
//	{"encryption":{"type":"secretbox","salt":"...","nonce":"<base64>",
//	  "kdfParams":{"N":16384,"r":8,"p":1,"dkLen":32,"interruptStep":0}},
//	 "data":"<base64 of nonce || ciphertext-with-tag>"}
//
//	{"encryption":{"type":"plaintext"},"data":<original value>}
//
// # Basic Usage
//
//	sealed, _ := envelope.Encrypted(ctx, map[string]any{"a": 1}, envelope.Options{
//	    SecretOptions: envelope.SecretOptions{Password: "p"},
//	})
//
//	// sealed.Salt holds the generated salt; it is also in the envelope.
//	data, _ := envelope.Decrypted(ctx, sealed.Document, envelope.SecretOptions{Password: "p"})
//
// # Key Resolution
//
// Keys come from SecretOptions in this order: Key, KeyText, then scrypt over
// Password and Salt. KeyText is used as its raw UTF-8 bytes and is NOT
// base64-decoded, unlike the salt and nonce in an envelope. A 32-character
// ASCII string is therefore a valid key; a base64-encoded key is not.
//
// Derived keys are never cached. Each operation pays the KDF cost again and
// wipes its key on return.
//
// KDF params read from an envelope are untrusted. A processor refuses any
// whose scrypt memory (128*r*N*p bytes) exceeds DefaultMaxKDFCost, or the
// limit set with WithMaxKDFCost, with ErrInvalidKDFParams.
//
// # Errors
//
// Wrong keys and tampered data both fail with ErrDecryptionFailed and cannot
// be told apart. A payload that authenticates but does not parse fails with
// ErrDeserializationFailed instead.
//
// # Codec Providers
//
// Payloads are canonicalized as JSON by default. Whole envelopes can be
// stored with any of the codec subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package envelope

import "context"

var std = newProcessor()

// Encrypt seals data with the default processor. See Processor.Encrypt.
func Encrypt(ctx context.Context, data any, opts SecretOptions) (string, error) {
	return std.Encrypt(ctx, data, opts)
}

// Decrypt opens a blob with the default processor. See Processor.Decrypt.
func Decrypt(ctx context.Context, blob string, opts SecretOptions) (any, error) {
	return std.Decrypt(ctx, blob, opts)
}

// Encrypted builds an envelope with the default processor. See Processor.Encrypted.
func Encrypted(ctx context.Context, data any, opts Options) (*Sealed, error) {
	return std.Encrypted(ctx, data, opts)
}

// Decrypted opens an envelope with the default processor. See Processor.Decrypted.
func Decrypted(ctx context.Context, doc *Document, opts SecretOptions) (any, error) {
	return std.Decrypted(ctx, doc, opts)
}
