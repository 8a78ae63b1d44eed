package envelope

import (
	"context"
	"fmt"
)

// SecretOptions carries the key material for one encrypt or decrypt call.
//
// Exactly one source is used, in this order: Key, KeyText, then a key
// derived from Password and Salt. Password and Salt are ignored when a key
// is present.
type SecretOptions struct {
	// Password is fed to the KDF as UTF-8 bytes.
	Password string

	// Salt is fed to the KDF as UTF-8 bytes. It is stored verbatim in
	// envelopes, so a base64 salt is hashed as its base64 text.
	Salt string

	// Key is a raw KeySize-byte key.
	Key []byte

	// KeyText is a raw key given as text. Its UTF-8 bytes are the key: it
	// is NOT base64-decoded, unlike the salt and nonce fields of an
	// envelope. A KeyText must therefore be exactly KeySize bytes long.
	KeyText string

	// Nonce overrides the fresh random nonce in Encrypt. Reuse prevention is
	// the caller's responsibility; only the length is checked.
	Nonce []byte

	// KDF overrides the processor's default key-derivation params.
	KDF *KDFParams
}

// String implements fmt.Stringer without revealing secret material.
func (o SecretOptions) String() string {
	kdf := "default"
	if o.KDF != nil {
		kdf = fmt.Sprintf("N=%d,r=%d,p=%d", o.KDF.N, o.KDF.R, o.KDF.P)
	}
	return fmt.Sprintf("SecretOptions{password:%s salt:%q key:%s keyText:%s nonce:%d bytes kdf:%s}",
		maskSecret(o.Password), o.Salt, maskBytes(o.Key), maskSecret(o.KeyText), len(o.Nonce), kdf)
}

// GoString implements fmt.GoStringer so %#v is masked too.
func (o SecretOptions) GoString() string {
	return o.String()
}

// hasKey reports whether a raw key is present.
func (o SecretOptions) hasKey() bool {
	return len(o.Key) > 0 || o.KeyText != ""
}

// resolveKey turns opts into key bytes. The returned slice is always a
// fresh copy the caller owns and should Zero.
//
// Nothing is cached: a password-derived key is recomputed on every call.
// This repeats the KDF cost per operation in exchange for never holding a
// derived key longer than the operation that needed it.
func resolveKey(ctx context.Context, opts SecretOptions, deriver KeyDeriver, defaults KDFParams) ([]byte, KDFParams, error) {
	params := defaults
	if opts.KDF != nil {
		params = *opts.KDF
	}

	switch {
	case len(opts.Key) > 0:
		key := make([]byte, len(opts.Key))
		copy(key, opts.Key)
		return key, params, nil
	case opts.KeyText != "":
		return DecodeUTF8(opts.KeyText), params, nil
	case opts.Password != "" && opts.Salt != "":
		key, err := deriver.DeriveKey(ctx, DecodeUTF8(opts.Password), DecodeUTF8(opts.Salt), params)
		if err != nil {
			return nil, params, err
		}
		return key, params, nil
	default:
		return nil, params, ErrMissingKeyMaterial
	}
}

// ResolveKey resolves opts to key bytes using scrypt and DefaultKDFParams.
func ResolveKey(ctx context.Context, opts SecretOptions) ([]byte, error) {
	key, _, err := resolveKey(ctx, opts, Scrypt(), DefaultKDFParams())
	return key, err
}
