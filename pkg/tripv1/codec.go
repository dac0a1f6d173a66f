// Package tripv1 defines the tripledger.v1 RPC surface: message types,
// procedure names, the JSON codec and a typed client.
package tripv1

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec encodes messages as JSON. It is registered under the name "json",
// replacing the protobuf JSON codec, so plain Go structs can travel over
// the Connect protocol.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// WithCodec is the option both handlers and clients must use.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
