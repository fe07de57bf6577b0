package network

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Decoder turns a response body into the caller's type.
type Decoder interface {
	Decode(data []byte, v any) error
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, v any) error

// Decode makes DecoderFunc satisfy Decoder.
func (f DecoderFunc) Decode(data []byte, v any) error {
	return f(data, v)
}

// JSONDecoder is the default Decoder. With Strict set, unknown fields and
// trailing data are rejected.
type JSONDecoder struct {
	Strict bool
}

// Decode implements Decoder.
func (d JSONDecoder) Decode(data []byte, v any) error {
	if !d.Strict {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
