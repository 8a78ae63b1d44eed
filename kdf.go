package envelope

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/scrypt"
)

// Limits on KDF params read from envelopes.
const (
	// DefaultMaxKDFCost bounds 128*r*N*p, the bytes scrypt allocates,
	// at 1 GiB. DefaultKDFParams costs 16 MiB.
	DefaultMaxKDFCost uint64 = 1 << 30

	// MaxKDFKeyLen bounds dkLen.
	MaxKDFKeyLen = 1024
)

// KDFParams configures scrypt key derivation.
// The params are embedded verbatim in every secretbox envelope so a later
// open derives the identical key even if the defaults have changed since.
type KDFParams struct {
	// N is the CPU/memory cost, a power of two.
	N int `json:"N" yaml:"N" msgpack:"N" bson:"N"`
	// R is the block size.
	R int `json:"r" yaml:"r" msgpack:"r" bson:"r"`
	// P is the parallelism factor.
	P int `json:"p" yaml:"p" msgpack:"p" bson:"p"`
	// DKLen is the derived key length in bytes.
	DKLen int `json:"dkLen" yaml:"dkLen" msgpack:"dkLen" bson:"dkLen"`
	// InterruptStep is engine tuning from other implementations.
	// It is carried through envelopes but does not affect derivation.
	InterruptStep int `json:"interruptStep" yaml:"interruptStep" msgpack:"interruptStep" bson:"interruptStep"`
	// LogN is honoured when N is zero (N = 1<<LogN).
	LogN int `json:"logN,omitempty" yaml:"logN,omitempty" msgpack:"logN,omitempty" bson:"logN,omitempty"`
}

// DefaultKDFParams returns the parameter set new envelopes are sealed with.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		N:             16384,
		R:             8,
		P:             1,
		DKLen:         KeySize,
		InterruptStep: 0,
	}
}

// normalize fills the engine defaults older envelopes may have omitted and
// checks the result is derivable.
func (k KDFParams) normalize() (KDFParams, error) {
	if k.N == 0 && k.LogN > 0 {
		if k.LogN >= 31 {
			return k, fmt.Errorf("%w: logN %d out of range", ErrInvalidKDFParams, k.LogN)
		}
		k.N = 1 << k.LogN
	}
	if k.R == 0 {
		k.R = 8
	}
	if k.P == 0 {
		k.P = 1
	}
	if k.DKLen == 0 {
		k.DKLen = KeySize
	}

	if k.N <= 1 || k.N&(k.N-1) != 0 {
		return k, fmt.Errorf("%w: N must be a power of two greater than 1, got %d", ErrInvalidKDFParams, k.N)
	}
	if k.R < 0 || k.P < 0 || uint64(k.R)*uint64(k.P) >= 1<<30 {
		return k, fmt.Errorf("%w: r=%d p=%d out of range", ErrInvalidKDFParams, k.R, k.P)
	}
	if k.DKLen < 0 || k.DKLen > MaxKDFKeyLen {
		return k, fmt.Errorf("%w: dkLen must be between 1 and %d, got %d", ErrInvalidKDFParams, MaxKDFKeyLen, k.DKLen)
	}
	return k, nil
}

// Cost returns 128*r*N*p, saturating at math.MaxUint64. Call it on
// normalized params.
func (k KDFParams) Cost() uint64 {
	if k.N <= 0 || k.R <= 0 || k.P <= 0 {
		return 0
	}
	cost := uint64(128)
	for _, f := range []uint64{uint64(k.R), uint64(k.N), uint64(k.P)} {
		if cost > math.MaxUint64/f {
			return math.MaxUint64
		}
		cost *= f
	}
	return cost
}

// bounded normalizes k and rejects params costing more than limit.
func (k KDFParams) bounded(limit uint64) (KDFParams, error) {
	n, err := k.normalize()
	if err != nil {
		return n, err
	}
	if cost := n.Cost(); cost > limit {
		return n, fmt.Errorf("%w: cost %d bytes (N=%d r=%d p=%d) exceeds limit %d", ErrInvalidKDFParams, cost, n.N, n.R, n.P, limit)
	}
	return n, nil
}

// KeyDeriver turns a password and salt into key bytes.
type KeyDeriver interface {
	// DeriveKey derives params.DKLen bytes from password and salt.
	// Implementations must return ctx.Err() promptly once ctx is done.
	DeriveKey(ctx context.Context, password, salt []byte, params KDFParams) ([]byte, error)
}

// scryptDeriver implements scrypt key derivation.
type scryptDeriver struct{}

// Scrypt returns the builtin scrypt key deriver.
func Scrypt() KeyDeriver {
	return &scryptDeriver{}
}

// DeriveKey runs scrypt off the calling goroutine. A cancelled ctx returns
// immediately; the abandoned computation finishes in the background and its
// output is wiped.
func (d *scryptDeriver) DeriveKey(ctx context.Context, password, salt []byte, params KDFParams) ([]byte, error) {
	p, err := params.normalize()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		key []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		key, err := scrypt.Key(password, salt, p.N, p.R, p.P, p.DKLen)
		done <- result{key: key, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			r := <-done
			Zero(r.key)
		}()
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKDFParams, r.err)
		}
		return r.key, nil
	}
}

// GenerateKey derives a key from password and salt with scrypt.
// A nil params uses DefaultKDFParams.
func GenerateKey(ctx context.Context, password, salt string, params *KDFParams) ([]byte, error) {
	p := DefaultKDFParams()
	if params != nil {
		p = *params
	}
	return Scrypt().DeriveKey(ctx, DecodeUTF8(password), DecodeUTF8(salt), p)
}

// NewRandomSalt returns NonceSize random bytes encoded as base64.
func NewRandomSalt() (string, error) {
	salt, err := randomBytes(NonceSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return EncodeBase64(salt), nil
}

// randomBytes reads n bytes from crypto/rand.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
