package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec serializes plain Go structs as JSON. It is registered under the name
// "json" and replaces Connect's protobuf-JSON codec on handlers and clients.
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
