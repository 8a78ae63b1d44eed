package envelope

import "fmt"

// maskSecret hides a secret string, keeping only whether it was set.
func maskSecret(value string) string {
	if value == "" {
		return "<unset>"
	}
	return "***"
}

// maskBytes hides raw key bytes, keeping only their length.
// Key lengths are fixed by the cipher, so the length reveals nothing.
func maskBytes(value []byte) string {
	if len(value) == 0 {
		return "<unset>"
	}
	return fmt.Sprintf("[%d bytes]", len(value))
}
