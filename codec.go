package envelope

import (
	"encoding/json"
)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// canonicalCodec is the default payload and document codec: UTF-8 JSON.
// It lives here rather than in the json subpackage so the root package has
// a default without importing its own providers.
type canonicalCodec struct{}

func (c canonicalCodec) ContentType() string {
	return "application/json"
}

func (c canonicalCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c canonicalCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
