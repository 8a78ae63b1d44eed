package envelope

import (
	"sync"
)

var (
	registry   = make(map[string]*Processor)
	registryMu sync.RWMutex
)

// Use returns a cached processor that stores documents with codec, or
// builds one. The processor is cached by the codec's content type, so opts
// only apply the first time a content type is requested.
func Use(codec Codec, opts ...Option) (*Processor, error) {
	key := codec.ContentType()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached, nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached, nil
	}

	all := append([]Option{WithDocumentCodec(codec)}, opts...)
	processor, err := NewProcessor(all...)
	if err != nil {
		return nil, err
	}

	registry[key] = processor
	return processor, nil
}

// Reset clears the processor registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Processor)
}
