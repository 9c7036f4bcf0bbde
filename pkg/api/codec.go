// Package api holds the casesettle wire messages. Messages are plain structs
// carried over Connect with the JSON codec in this package; money is encoded
// as decimal strings so no amount passes through a float.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name, matching the application/json content type.
const CodecName = "json"

// JSONCodec marshals messages with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return b, nil
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
