package envelope

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for envelope events.
var (
	SignalEncryptStart    = capitan.NewSignal("envelope.encrypt.start", "Encrypt operation beginning")
	SignalEncryptComplete = capitan.NewSignal("envelope.encrypt.complete", "Encrypt operation finished")
	SignalDecryptStart    = capitan.NewSignal("envelope.decrypt.start", "Decrypt operation beginning")
	SignalDecryptComplete = capitan.NewSignal("envelope.decrypt.complete", "Decrypt operation finished")
	SignalKeyDerived      = capitan.NewSignal("envelope.key.derived", "Key derived from password and salt")
	SignalSaltGenerated   = capitan.NewSignal("envelope.salt.generated", "Random salt generated for a document")
	SignalStoreComplete   = capitan.NewSignal("envelope.store.complete", "Document marshaled for storage")
	SignalLoadComplete    = capitan.NewSignal("envelope.load.complete", "Document unmarshaled from storage")
)

// Keys for typed event data.
var (
	KeyScheme      = capitan.NewStringKey("scheme")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyDataSize    = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyCost        = capitan.NewIntKey("kdf_cost")
)

// emitEncryptStart emits an event when an encrypt begins.
func emitEncryptStart(ctx context.Context, scheme Scheme, typeName string) {
	capitan.Emit(ctx, SignalEncryptStart,
		KeyScheme.Field(string(scheme)),
		KeyTypeName.Field(typeName),
	)
}

// emitEncryptComplete emits an event when an encrypt finishes.
func emitEncryptComplete(ctx context.Context, scheme Scheme, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyScheme.Field(string(scheme)),
		KeyTypeName.Field(typeName),
		KeyDataSize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncryptComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncryptComplete, fields...)
	}
}

// emitDecryptStart emits an event when a decrypt begins.
func emitDecryptStart(ctx context.Context, scheme Scheme, typeName string) {
	capitan.Emit(ctx, SignalDecryptStart,
		KeyScheme.Field(string(scheme)),
		KeyTypeName.Field(typeName),
	)
}

// emitDecryptComplete emits an event when a decrypt finishes.
func emitDecryptComplete(ctx context.Context, scheme Scheme, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyScheme.Field(string(scheme)),
		KeyTypeName.Field(typeName),
		KeyDataSize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecryptComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecryptComplete, fields...)
	}
}

// emitKeyDerived emits an event after a KDF run. Key bytes are never emitted.
func emitKeyDerived(ctx context.Context, cost int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyCost.Field(cost),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalKeyDerived, fields...)
	} else {
		capitan.Emit(ctx, SignalKeyDerived, fields...)
	}
}

// emitSaltGenerated emits an event when a document gets a random salt.
func emitSaltGenerated(ctx context.Context) {
	capitan.Emit(ctx, SignalSaltGenerated)
}

// emitStoreComplete emits an event when a document is marshaled.
func emitStoreComplete(ctx context.Context, contentType string, scheme Scheme, size int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyScheme.Field(string(scheme)),
		KeyDataSize.Field(size),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStoreComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalStoreComplete, fields...)
	}
}

// emitLoadComplete emits an event when a document is unmarshaled.
func emitLoadComplete(ctx context.Context, contentType string, scheme Scheme, size int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyScheme.Field(string(scheme)),
		KeyDataSize.Field(size),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}
