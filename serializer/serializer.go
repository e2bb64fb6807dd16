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

// Package serializer turns actor payloads, state values and the timer and
// reminder wire shapes into bytes and back.
package serializer

// Serializer converts values to bytes and back.
//
// Deserialize receives a pointer to the destination value. Empty input leaves
// the destination untouched. Implementations must be safe for concurrent use.
type Serializer interface {
	// Serialize encodes v. A nil v encodes to nil bytes.
	Serialize(v any) ([]byte, error)
	// Deserialize decodes data into the value pointed to by v.
	Deserialize(data []byte, v any) error
	// ContentType returns the media type of the encoded bytes.
	ContentType() string
}

const (
	// JSONContentType is the media type produced by the JSON serializer
	JSONContentType = "application/json"
	// ProtoContentType is the media type produced by the protobuf serializer
	ProtoContentType = "application/x-protobuf"
)

// Default returns the serializer used when none is configured.
func Default() Serializer {
	return NewJSON()
}
