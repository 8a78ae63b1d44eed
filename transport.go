package envelope

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// EncodeBase64 encodes bytes to standard base64 with padding.
// All binary envelope fields (nonce, data) use this alphabet.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes standard base64 with padding.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// DecodeUTF8 returns the UTF-8 bytes of s.
func DecodeUTF8(s string) []byte {
	return []byte(s)
}

// EncodeUTF8 returns b as a string, rejecting invalid UTF-8.
func EncodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("invalid utf-8 sequence of %d bytes", len(b))
	}
	return string(b), nil
}
