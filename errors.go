package envelope

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingKeyMaterial indicates neither a key nor a password/salt pair
	// was available to resolve an encryption key.
	ErrMissingKeyMaterial = errors.New("a key, or a password/salt to generate a key from, is required")

	// ErrInvalidNonceLength indicates a caller-supplied nonce has the wrong size.
	ErrInvalidNonceLength = errors.New("invalid nonce length")

	// ErrInvalidKeyLength indicates a resolved key has the wrong size for the cipher.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrMalformedCiphertext indicates a stored blob cannot contain a nonce
	// or is not valid base64.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrDecryptionFailed indicates the authentication tag did not verify.
	// Wrong keys and tampered ciphertexts both produce this error.
	ErrDecryptionFailed = errors.New("could not decrypt message")

	// ErrDeserializationFailed indicates authenticated plaintext did not parse.
	ErrDeserializationFailed = errors.New("deserialization failed")

	// ErrSerializationFailed indicates a value could not be canonicalized.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrUnknownScheme indicates an envelope or option names no known scheme.
	ErrUnknownScheme = errors.New("unknown encryption scheme")

	// ErrInvalidKDFParams indicates the key-derivation cost parameters are unusable.
	ErrInvalidKDFParams = errors.New("invalid kdf params")

	// ErrInvalidDocument indicates an envelope is missing fields its scheme requires.
	ErrInvalidDocument = errors.New("invalid document")
)

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err         error  // Underlying sentinel error (ErrSerializationFailed, ErrDeserializationFailed)
	ContentType string // Content type of the codec that failed
	Cause       error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.ContentType != "" && e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// DocumentError represents an envelope that does not satisfy its scheme.
type DocumentError struct {
	Err    error  // Underlying sentinel error (ErrInvalidDocument, ErrUnknownScheme)
	Scheme Scheme // Scheme tag found on the envelope
	Field  string // Wire field that is missing or unexpected
}

func (e *DocumentError) Error() string {
	if e.Field != "" && e.Scheme != "" {
		return fmt.Sprintf("%s for scheme %q (field %s)", e.Err.Error(), e.Scheme, e.Field)
	}
	if e.Scheme != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Scheme)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, contentType string, cause error) error {
	return &CodecError{
		Err:         sentinel,
		ContentType: contentType,
		Cause:       cause,
	}
}

// newDocumentError creates a DocumentError for envelope validation failures.
func newDocumentError(sentinel error, scheme Scheme, field string) error {
	return &DocumentError{
		Err:    sentinel,
		Scheme: scheme,
		Field:  field,
	}
}
