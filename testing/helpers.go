// Package testing provides test utilities for envelope.
package testing

import (
	"testing"

	"github.com/zoobzio/envelope"
)

// TestKey returns a valid 32-byte secretbox key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte(TestKeyText(tb))
}

// TestKeyText returns a 32-character key string. Its UTF-8 bytes are the
// key, so it works as SecretOptions.KeyText.
func TestKeyText(tb testing.TB) string {
	tb.Helper()
	return "32-byte-key-for-secretbox-seal!!"
}

// TestPassword returns a password for testing.
func TestPassword(tb testing.TB) string {
	tb.Helper()
	return "correct horse battery staple"
}

// TestSalt returns a fixed salt for testing.
func TestSalt(tb testing.TB) string {
	tb.Helper()
	return "fixed-salt"
}

// FastKDFParams returns scrypt params cheap enough for unit tests.
// Never use them outside tests.
func FastKDFParams() envelope.KDFParams {
	return envelope.KDFParams{
		N:     16,
		R:     8,
		P:     1,
		DKLen: envelope.KeySize,
	}
}

// TestProcessor returns a processor using FastKDFParams plus opts.
func TestProcessor(tb testing.TB, opts ...envelope.Option) *envelope.Processor {
	tb.Helper()
	all := append([]envelope.Option{envelope.WithKDFParams(FastKDFParams())}, opts...)
	p, err := envelope.NewProcessor(all...)
	if err != nil {
		tb.Fatalf("NewProcessor() error: %v", err)
	}
	return p
}

// SimpleRecord is a test type for typed decoding.
type SimpleRecord struct {
	ID   string `json:"id" yaml:"id" msgpack:"id" bson:"id"`
	Name string `json:"name" yaml:"name" msgpack:"name" bson:"name"`
}
