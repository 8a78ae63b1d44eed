package envelope

// Scheme tags how an envelope's data must be interpreted.
type Scheme string

const (
	// SchemeSecretbox stores data encrypted with XSalsa20-Poly1305.
	// This is the default when no scheme is requested.
	SchemeSecretbox Scheme = "secretbox"

	// SchemePlaintext stores data unencrypted.
	SchemePlaintext Scheme = "plaintext"
)

// validSchemes contains all schemes an envelope may carry.
var validSchemes = map[Scheme]bool{
	SchemeSecretbox: true,
	SchemePlaintext: true,
}

// IsValidScheme returns true if the scheme is a known envelope scheme.
func IsValidScheme(s Scheme) bool {
	return validSchemes[s]
}

// orDefault resolves the empty scheme to secretbox.
func (s Scheme) orDefault() Scheme {
	if s == "" {
		return SchemeSecretbox
	}
	return s
}
