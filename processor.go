package envelope

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/sentinel"
)

// Processor builds and opens envelopes.
//
// A Processor holds only configuration fixed at construction. Every
// operation allocates its own key and nonce buffers and wipes them on
// return, so any number of operations may run concurrently.
type Processor struct {
	codec    Codec      // payload canonicalization
	docCodec Codec      // envelope persistence for Store/Load
	deriver  KeyDeriver // password+salt -> key
	kdf      KDFParams  // active default for new envelopes
	maxCost  uint64     // ceiling on KDFParams.Cost for any params used
}

// Option configures a Processor.
type Option func(*Processor)

// WithCodec sets the codec payloads are canonicalized with before sealing.
// Envelopes must be opened with the codec they were sealed with.
func WithCodec(c Codec) Option {
	return func(p *Processor) {
		p.codec = c
	}
}

// WithDocumentCodec sets the codec Store and Load use for whole envelopes.
func WithDocumentCodec(c Codec) Option {
	return func(p *Processor) {
		p.docCodec = c
	}
}

// WithKDFParams sets the KDF params embedded in new envelopes.
func WithKDFParams(params KDFParams) Option {
	return func(p *Processor) {
		p.kdf = params
	}
}

// WithMaxKDFCost sets the largest KDFParams.Cost the processor will derive
// with. Envelopes above it fail with ErrInvalidKDFParams instead of
// allocating. The default is DefaultMaxKDFCost.
func WithMaxKDFCost(limit uint64) Option {
	return func(p *Processor) {
		p.maxCost = limit
	}
}

// WithDeriver replaces the scrypt key deriver.
func WithDeriver(d KeyDeriver) Option {
	return func(p *Processor) {
		p.deriver = d
	}
}

func newProcessor() *Processor {
	return &Processor{
		codec:    canonicalCodec{},
		docCodec: canonicalCodec{},
		deriver:  Scrypt(),
		kdf:      DefaultKDFParams(),
		maxCost:  DefaultMaxKDFCost,
	}
}

// NewProcessor creates a Processor. Without options it canonicalizes and
// stores as JSON and derives keys with scrypt at DefaultKDFParams.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := newProcessor()
	for _, opt := range opts {
		opt(p)
	}

	if _, err := p.checkKDF(p.kdf); err != nil {
		return nil, err
	}
	if p.codec == nil || p.docCodec == nil {
		return nil, fmt.Errorf("%w: nil codec", ErrSerializationFailed)
	}
	if p.deriver == nil {
		p.deriver = Scrypt()
	}
	return p, nil
}

// KDFParams returns the params new envelopes are sealed with.
func (p *Processor) KDFParams() KDFParams {
	return p.kdf
}

// ContentType returns the payload codec's content type.
func (p *Processor) ContentType() string {
	return p.codec.ContentType()
}

// checkKDF normalizes params and holds them to the processor's cost ceiling.
func (p *Processor) checkKDF(params KDFParams) (KDFParams, error) {
	return params.bounded(p.maxCost)
}

// resolve resolves opts to key bytes, refusing KDF params above the ceiling
// before any derivation starts.
func (p *Processor) resolve(ctx context.Context, opts SecretOptions) ([]byte, error) {
	if opts.KDF != nil {
		if _, err := p.checkKDF(*opts.KDF); err != nil {
			return nil, err
		}
	}
	return p.resolve(ctx, opts)
}

// observedDeriver reports every derivation as a SignalKeyDerived event.
type observedDeriver struct {
	KeyDeriver
}

func (d observedDeriver) DeriveKey(ctx context.Context, password, salt []byte, params KDFParams) ([]byte, error) {
	start := time.Now()
	key, err := d.KeyDeriver.DeriveKey(ctx, password, salt, params)
	emitKeyDerived(ctx, params.N, time.Since(start), err)
	return key, err
}

// ResolveKey resolves opts to key bytes with this processor's deriver and
// default KDF params. The caller owns the returned slice.
func (p *Processor) ResolveKey(ctx context.Context, opts SecretOptions) ([]byte, error) {
	return p.resolve(ctx, opts)
}

// Encrypt canonicalizes data and seals it, returning base64(nonce || box).
//
// opts.Nonce is used when set and must be exactly NonceSize bytes; a fresh
// random nonce is generated otherwise.
func (p *Processor) Encrypt(ctx context.Context, data any, opts SecretOptions) (string, error) {
	blob, _, err := p.seal(ctx, data, opts)
	return blob, err
}

// seal is the secretbox path shared by Encrypt and Encrypted.
func (p *Processor) seal(ctx context.Context, data any, opts SecretOptions) (string, []byte, error) {
	nonce := opts.Nonce
	if nonce == nil {
		var err error
		nonce, err = randomBytes(NonceSize)
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate nonce: %w", err)
		}
	}
	if len(nonce) != NonceSize {
		return "", nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidNonceLength, NonceSize, len(nonce))
	}

	key, err := p.resolve(ctx, opts)
	if err != nil {
		return "", nil, err
	}
	defer Zero(key)

	c, err := newSecretbox(key)
	if err != nil {
		return "", nil, err
	}
	defer c.wipe()

	plaintext, err := p.codec.Marshal(data)
	if err != nil {
		return "", nil, newCodecError(ErrSerializationFailed, p.codec.ContentType(), err)
	}
	defer Zero(plaintext)

	box, err := c.Seal(nonce, plaintext)
	if err != nil {
		return "", nil, err
	}
	return EncodeBase64(box), nonce, nil
}

// Decrypt opens a base64(nonce || box) blob and decodes the payload.
func (p *Processor) Decrypt(ctx context.Context, blob string, opts SecretOptions) (any, error) {
	var out any
	if err := p.DecryptInto(ctx, blob, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecryptInto opens a base64(nonce || box) blob and decodes the payload into v.
func (p *Processor) DecryptInto(ctx context.Context, blob string, opts SecretOptions, v any) error {
	plaintext, err := p.open(ctx, blob, opts)
	if err != nil {
		return err
	}
	defer Zero(plaintext)

	if err := p.codec.Unmarshal(plaintext, v); err != nil {
		return newCodecError(ErrDeserializationFailed, p.codec.ContentType(), err)
	}
	return nil
}

// open authenticates and decrypts a blob. The key is resolved before the
// blob is looked at, so missing key material is reported first.
// Authentication failures surface only as ErrDecryptionFailed.
func (p *Processor) open(ctx context.Context, blob string, opts SecretOptions) ([]byte, error) {
	key, err := p.resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer Zero(key)

	raw, err := DecodeBase64(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	c, err := newSecretbox(key)
	if err != nil {
		return nil, err
	}
	defer c.wipe()

	return c.Open(raw)
}

// Encrypted builds an envelope for data.
//
// An empty opts.Salt is replaced by a fresh random salt, reported back in
// Sealed.Salt; opts itself is never modified. SchemePlaintext stores data
// as is and resolves no key. Otherwise data is sealed with secretbox under
// a fresh nonce, and the envelope records the salt, nonce and the KDF params
// the key was derived with (opts.KDF normalized, or the processor default).
// opts.KDF is checked even when a raw key makes it unused, so every envelope
// records params that can be derived.
func (p *Processor) Encrypted(ctx context.Context, data any, opts Options) (*Sealed, error) {
	scheme := opts.Scheme.orDefault()

	start := time.Now()
	emitEncryptStart(ctx, scheme, typeNameOf(data))

	var retErr error
	var size int
	defer func() {
		emitEncryptComplete(ctx, scheme, typeNameOf(data), size, time.Since(start), retErr)
	}()

	if !IsValidScheme(scheme) {
		retErr = newDocumentError(ErrUnknownScheme, scheme, "")
		return nil, retErr
	}

	salt := opts.Salt
	if salt == "" {
		generated, err := NewRandomSalt()
		if err != nil {
			retErr = err
			return nil, retErr
		}
		salt = generated
		emitSaltGenerated(ctx)
	}

	switch scheme {
	case SchemePlaintext:
		return &Sealed{
			Document: &Document{
				Encryption: Encryption{Type: SchemePlaintext},
				Data:       data,
			},
			Salt: salt,
		}, nil

	case SchemeSecretbox:
		secret := opts.SecretOptions
		secret.Salt = salt
		secret.Nonce = nil

		params := p.kdf
		if secret.KDF != nil {
			checked, err := p.checkKDF(*secret.KDF)
			if err != nil {
				retErr = err
				return nil, retErr
			}
			params = checked
		}
		secret.KDF = &params

		blob, nonce, err := p.seal(ctx, data, secret)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		size = len(blob)

		return &Sealed{
			Document: &Document{
				Encryption: Encryption{
					Type:  SchemeSecretbox,
					Salt:  salt,
					Nonce: EncodeBase64(nonce),
					KDF:   &params,
				},
				Data: blob,
			},
			Salt: salt,
		}, nil

	default:
		retErr = newDocumentError(ErrUnknownScheme, scheme, "")
		return nil, retErr
	}
}

// Decrypted opens doc and returns its data.
//
// A plaintext document's Data is returned unchanged and opts is not
// consulted. A secretbox document is opened with the caller's Password,
// Key or KeyText together with the salt and KDF params recorded in the
// envelope; opts.Salt and opts.KDF are ignored. doc is never modified.
func (p *Processor) Decrypted(ctx context.Context, doc *Document, opts SecretOptions) (any, error) {
	var out any
	if err := p.decryptedInto(ctx, doc, opts, &out, "any"); err != nil {
		return nil, err
	}
	return out, nil
}

// DecryptedInto opens doc and decodes its data into v. Plaintext data is
// re-encoded through the payload codec to reach v's type.
func (p *Processor) DecryptedInto(ctx context.Context, doc *Document, opts SecretOptions, v any) error {
	return p.decryptedInto(ctx, doc, opts, v, typeNameOf(v))
}

// DecryptedAs opens doc with p and decodes its data as a T.
// A struct T with no exported fields is refused before anything is
// decrypted, since every decoded value would be dropped.
func DecryptedAs[T any](ctx context.Context, p *Processor, doc *Document, opts SecretOptions) (T, error) {
	var out T
	typeName, err := targetFor[T]()
	if err != nil {
		return out, newCodecError(ErrDeserializationFailed, p.codec.ContentType(), err)
	}
	err = p.decryptedInto(ctx, doc, opts, &out, typeName)
	return out, err
}

func (p *Processor) decryptedInto(ctx context.Context, doc *Document, opts SecretOptions, v any, typeName string) error {
	if doc == nil {
		return newDocumentError(ErrInvalidDocument, "", "")
	}
	scheme := doc.Encryption.Type

	start := time.Now()
	emitDecryptStart(ctx, scheme, typeName)

	var retErr error
	var size int
	defer func() {
		emitDecryptComplete(ctx, scheme, typeName, size, time.Since(start), retErr)
	}()

	if err := doc.Validate(); err != nil {
		retErr = err
		return retErr
	}

	switch scheme {
	case SchemePlaintext:
		if ptr, ok := v.(*any); ok {
			*ptr = doc.Data
			return nil
		}
		retErr = p.transcode(doc.Data, v)
		return retErr

	case SchemeSecretbox:
		blob, _ := doc.Ciphertext()
		params := *doc.Encryption.KDF
		secret := SecretOptions{
			Password: opts.Password,
			Salt:     doc.Encryption.Salt,
			Key:      opts.Key,
			KeyText:  opts.KeyText,
			KDF:      &params,
		}

		plaintext, err := p.open(ctx, blob, secret)
		if err != nil {
			retErr = err
			return retErr
		}
		defer Zero(plaintext)
		size = len(plaintext)

		if err := p.codec.Unmarshal(plaintext, v); err != nil {
			retErr = newCodecError(ErrDeserializationFailed, p.codec.ContentType(), err)
			return retErr
		}
		return nil

	default:
		retErr = newDocumentError(ErrUnknownScheme, scheme, "type")
		return retErr
	}
}

// transcode moves a plaintext value into v through the payload codec.
func (p *Processor) transcode(data any, v any) error {
	b, err := p.codec.Marshal(data)
	if err != nil {
		return newCodecError(ErrSerializationFailed, p.codec.ContentType(), err)
	}
	if err := p.codec.Unmarshal(b, v); err != nil {
		return newCodecError(ErrDeserializationFailed, p.codec.ContentType(), err)
	}
	return nil
}

// Store validates doc and marshals it with the document codec.
func (p *Processor) Store(ctx context.Context, doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, newDocumentError(ErrInvalidDocument, "", "")
	}

	var retErr error
	var retData []byte
	defer func() {
		emitStoreComplete(ctx, p.docCodec.ContentType(), doc.Encryption.Type, len(retData), retErr)
	}()

	if err := doc.Validate(); err != nil {
		retErr = err
		return nil, retErr
	}

	data, err := p.docCodec.Marshal(doc)
	if err != nil {
		retErr = newCodecError(ErrSerializationFailed, p.docCodec.ContentType(), err)
		return nil, retErr
	}
	retData = data
	return retData, nil
}

// Load unmarshals an envelope with the document codec and validates it.
func (p *Processor) Load(ctx context.Context, data []byte) (*Document, error) {
	var retErr error
	var doc Document
	defer func() {
		emitLoadComplete(ctx, p.docCodec.ContentType(), doc.Encryption.Type, len(data), retErr)
	}()

	if err := p.docCodec.Unmarshal(data, &doc); err != nil {
		retErr = newCodecError(ErrDeserializationFailed, p.docCodec.ContentType(), err)
		return nil, retErr
	}
	if err := doc.Validate(); err != nil {
		retErr = err
		return nil, retErr
	}
	if doc.Encryption.KDF != nil {
		if _, err := p.checkKDF(*doc.Encryption.KDF); err != nil {
			retErr = err
			return nil, retErr
		}
	}
	return &doc, nil
}

// typeNameOf names the dynamic type of v for events.
func typeNameOf(v any) string {
	if v == nil {
		return "nil"
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.String()
}

// targetFor names T for events and checks a struct T can hold decoded
// data, using sentinel metadata.
func targetFor[T any]() (string, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return rt.String(), nil
	}

	spec := sentinel.Scan[T]()
	if len(spec.Fields) == 0 {
		return spec.TypeName, fmt.Errorf("target %s has no exported fields", rt.String())
	}
	return spec.TypeName, nil
}
