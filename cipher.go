package envelope

import (
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// Sizes fixed by secretbox. KeySize and NonceSize are the array lengths in
// secretbox's Seal/Open signatures; the arrays below would not compile
// against a mismatch.
const (
	KeySize   = 32
	NonceSize = 24
	Overhead  = secretbox.Overhead
)

// Cipher seals and opens self-contained blobs of nonce || ciphertext-with-tag.
type Cipher interface {
	// Seal encrypts plaintext under nonce and prepends the nonce.
	Seal(nonce, plaintext []byte) ([]byte, error)

	// Open splits the nonce off blob and authenticates and decrypts the rest.
	Open(blob []byte) ([]byte, error)
}

// secretboxCipher implements XSalsa20-Poly1305 sealing.
type secretboxCipher struct {
	key [KeySize]byte
}

// Secretbox returns a secretbox cipher for key.
// Key must be exactly KeySize bytes.
func Secretbox(key []byte) (Cipher, error) {
	c, err := newSecretbox(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newSecretbox(key []byte) (*secretboxCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeyLength, KeySize, len(key))
	}

	c := &secretboxCipher{}
	copy(c.key[:], key)
	return c, nil
}

func (c *secretboxCipher) Seal(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidNonceLength, NonceSize, len(nonce))
	}

	var n [NonceSize]byte
	copy(n[:], nonce)

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+Overhead)
	copy(out, nonce)
	return secretbox.Seal(out, plaintext, &n, &c.key), nil
}

func (c *secretboxCipher) Open(blob []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the nonce", ErrMalformedCiphertext, len(blob))
	}

	var n [NonceSize]byte
	copy(n[:], blob[:NonceSize])

	plaintext, ok := secretbox.Open(nil, blob[NonceSize:], &n, &c.key)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// wipe zeroes the cipher's copy of the key.
func (c *secretboxCipher) wipe() {
	Zero(c.key[:])
}

// Zero overwrites b with zeros to clear key material from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
