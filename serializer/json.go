// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package serializer

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// JSON encodes values as JSON. Protobuf messages go through protojson so
// that well-known types keep their canonical mapping; raw byte slices pass
// through untouched.
type JSON struct {
	marshal   protojson.MarshalOptions
	unmarshal protojson.UnmarshalOptions
}

// enforce compilation error
var _ Serializer = (*JSON)(nil)

// NewJSON creates a JSON serializer
func NewJSON() *JSON {
	return &JSON{
		marshal:   protojson.MarshalOptions{EmitUnpopulated: false},
		unmarshal: protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

// Serialize implements Serializer
func (s *JSON) Serialize(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case proto.Message:
		return s.marshal.Marshal(x)
	default:
		bytea, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %T: %w", v, err)
		}
		return bytea, nil
	}
}

// Deserialize implements Serializer
func (s *JSON) Deserialize(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}

	switch x := v.(type) {
	case *[]byte:
		*x = append((*x)[:0], data...)
		return nil
	case proto.Message:
		return s.unmarshal.Unmarshal(data, x)
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to deserialize into %T: %w", v, err)
		}
		return nil
	}
}

// ContentType implements Serializer
func (s *JSON) ContentType() string {
	return JSONContentType
}
