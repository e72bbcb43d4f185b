// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import (
	"encoding/base64"

	json "github.com/goccy/go-json"
)

// payload is the inner object of an envelope: { "data": "<base64>", "eof": true? }.
//
// Both fields are optional on the wire: data is omitted when empty, eof is
// omitted when false. goccy/go-json honors the same struct tag semantics as
// encoding/json, including omitempty, so no custom marshaler is needed.
type payload struct {
	Data string `json:"data,omitempty"`
	EOF  bool   `json:"eof,omitempty"`
}

// Envelope is the decoded form of the wire frame
// { "<name>": { "data": "<base64>", "eof": true? } }.
type Envelope struct {
	Name string
	Data []byte
	EOF  bool
}

// Encode builds an Envelope carrying payload under name, optionally marked
// with eof. It does not itself serialize to JSON; call Marshal for that.
func Encode(name string, data []byte, eof bool) Envelope {
	return Envelope{Name: name, Data: data, EOF: eof}
}

// Marshal serializes e to its wire JSON form.
func (e Envelope) Marshal() ([]byte, error) {
	p := payload{EOF: e.EOF}
	if len(e.Data) > 0 {
		p.Data = base64.StdEncoding.EncodeToString(e.Data)
	}
	return json.Marshal(map[string]payload{e.Name: p})
}

// Decode parses a wire frame into its name, payload, and eof flag. It fails
// with ErrInvalidArgument if the frame does not have exactly one top-level
// key, or if "data" is present but not valid base64.
func Decode(frame []byte) (name string, data []byte, eof bool, err error) {
	var m map[string]payload
	if err := json.Unmarshal(frame, &m); err != nil {
		return "", nil, false, ErrInvalidArgument
	}
	if len(m) != 1 {
		return "", nil, false, ErrInvalidArgument
	}
	for k, v := range m {
		name = k
		if v.Data != "" {
			data, err = base64.StdEncoding.DecodeString(v.Data)
			if err != nil {
				return "", nil, false, ErrInvalidArgument
			}
		}
		eof = v.EOF
	}
	return name, data, eof, nil
}
