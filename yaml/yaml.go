// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/zoobzio/envelope"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements envelope.Codec for YAML.
type yamlCodec struct {
	strict bool
}

// New returns a YAML codec.
func New() envelope.Codec {
	return &yamlCodec{}
}

// NewStrict returns a YAML codec that rejects fields the target type does
// not declare, so a misspelled envelope header fails to load.
func NewStrict() envelope.Codec {
	return &yamlCodec{strict: true}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML with two-space indentation.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v. Empty input leaves v untouched.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(c.strict)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
