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

	"google.golang.org/protobuf/proto"

	gerrors "github.com/tochemey/vactor/errors"
)

// Proto encodes protobuf messages in their binary wire format.
//
// Timer and reminder parameters are not protobuf messages; they keep their
// JSON wire shape so the sidecar can read them whatever the payload format.
type Proto struct{}

// enforce compilation error
var _ Serializer = (*Proto)(nil)

// NewProto creates a protobuf serializer
func NewProto() *Proto {
	return &Proto{}
}

// Serialize implements Serializer
func (s *Proto) Serialize(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case proto.Message:
		return proto.Marshal(x)
	case *TimerParams, *ReminderParams, TimerParams, ReminderParams:
		return json.Marshal(x)
	default:
		return nil, fmt.Errorf("%T: %w", v, gerrors.ErrUnsupportedType)
	}
}

// Deserialize implements Serializer
func (s *Proto) Deserialize(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}

	switch x := v.(type) {
	case *[]byte:
		*x = append((*x)[:0], data...)
		return nil
	case proto.Message:
		return proto.Unmarshal(data, x)
	case *TimerParams, *ReminderParams:
		return json.Unmarshal(data, x)
	default:
		return fmt.Errorf("%T: %w", v, gerrors.ErrUnsupportedType)
	}
}

// ContentType implements Serializer
func (s *Proto) ContentType() string {
	return ProtoContentType
}
