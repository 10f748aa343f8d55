// Package jsoncompat routes all json encoding through sonic, configured to
// behave like encoding/json (html escaping, sorted map keys) so cached and
// published payloads stay byte-stable.
package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

func NewEncoder(w io.Writer) Encoder { return api.NewEncoder(w) }

func NewDecoder(r io.Reader) Decoder { return api.NewDecoder(r) }
