// Package bson provides a BSON codec implementation.
//
// Embedded documents and arrays inside interface values decode into plain
// map[string]interface{} and []interface{} rather than bson.D and bson.A,
// so plaintext envelope data comes back in the same shape as from JSON.
package bson

import (
	"reflect"

	"github.com/zoobzio/envelope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// bsonCodec implements envelope.Codec for BSON.
type bsonCodec struct {
	registry *bsoncodec.Registry
}

// New returns a BSON codec.
func New() envelope.Codec {
	reg := bson.NewRegistry()
	reg.RegisterTypeMapEntry(bsontype.EmbeddedDocument, reflect.TypeOf(map[string]interface{}{}))
	reg.RegisterTypeMapEntry(bsontype.Array, reflect.TypeOf([]interface{}{}))
	return &bsonCodec{registry: reg}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	if err != nil {
		return err
	}
	if err := dec.SetRegistry(c.registry); err != nil {
		return err
	}
	return dec.Decode(v)
}
