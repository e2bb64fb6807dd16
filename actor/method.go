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

package actor

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/serializer"
)

// anonymousFunc matches the names the compiler gives to function literals
var anonymousFunc = regexp.MustCompile(`^func\d+$|^\d+$`)

// invoker runs a method against an actor instance. The payload is the serialized
// input and the returned bytes the serialized output.
type invoker func(ctx context.Context, actor Actor, payload []byte, codec serializer.Serializer) ([]byte, error)

// Method is an entry of an actor type dispatch table.
//
// Methods are built from method expressions with NewMethod, NewMethodNoInput,
// NewAction and NewActionNoInput. They take at most one input besides the
// context. The method is registered under the name of the Go method unless
// renamed with Named.
//
// Example:
//
//	actor.NewMethod((*Counter).Increment)
//	actor.NewActionNoInput((*Counter).Reset).Named("reset")
type Method struct {
	name     string
	receiver reflect.Type
	input    reflect.Type
	output   bool
	invoke   invoker
}

// NewMethod creates a method taking an input and returning an output
func NewMethod[A Actor, In, Out any](fn func(A, context.Context, In) (Out, error)) *Method {
	return &Method{
		name:     funcName(fn),
		receiver: reflect.TypeFor[A](),
		input:    reflect.TypeFor[In](),
		output:   true,
		invoke: func(ctx context.Context, actor Actor, payload []byte, codec serializer.Serializer) ([]byte, error) {
			receiver, err := cast[A](actor)
			if err != nil {
				return nil, err
			}

			in, err := decodeInput[In](payload, codec)
			if err != nil {
				return nil, err
			}

			out, err := fn(receiver, ctx, in)
			if err != nil {
				return nil, gerrors.NewBusinessError(err)
			}
			return codec.Serialize(out)
		},
	}
}

// NewMethodNoInput creates a method without input returning an output
func NewMethodNoInput[A Actor, Out any](fn func(A, context.Context) (Out, error)) *Method {
	return &Method{
		name:     funcName(fn),
		receiver: reflect.TypeFor[A](),
		output:   true,
		invoke: func(ctx context.Context, actor Actor, _ []byte, codec serializer.Serializer) ([]byte, error) {
			receiver, err := cast[A](actor)
			if err != nil {
				return nil, err
			}

			out, err := fn(receiver, ctx)
			if err != nil {
				return nil, gerrors.NewBusinessError(err)
			}
			return codec.Serialize(out)
		},
	}
}

// NewAction creates a method taking an input without output
func NewAction[A Actor, In any](fn func(A, context.Context, In) error) *Method {
	return &Method{
		name:     funcName(fn),
		receiver: reflect.TypeFor[A](),
		input:    reflect.TypeFor[In](),
		invoke: func(ctx context.Context, actor Actor, payload []byte, codec serializer.Serializer) ([]byte, error) {
			receiver, err := cast[A](actor)
			if err != nil {
				return nil, err
			}

			in, err := decodeInput[In](payload, codec)
			if err != nil {
				return nil, err
			}
			return nil, gerrors.NewBusinessError(fn(receiver, ctx, in))
		},
	}
}

// NewActionNoInput creates a method without input nor output
func NewActionNoInput[A Actor](fn func(A, context.Context) error) *Method {
	return &Method{
		name:     funcName(fn),
		receiver: reflect.TypeFor[A](),
		invoke: func(ctx context.Context, actor Actor, _ []byte, _ serializer.Serializer) ([]byte, error) {
			receiver, err := cast[A](actor)
			if err != nil {
				return nil, err
			}
			return nil, gerrors.NewBusinessError(fn(receiver, ctx))
		},
	}
}

// Named overrides the name the method is registered under
func (m *Method) Named(name string) *Method {
	m.name = name
	return m
}

// Name returns the method name
func (m *Method) Name() string {
	return m.name
}

// HasInput reports whether the method takes an input
func (m *Method) HasInput() bool {
	return m.input != nil
}

// HasOutput reports whether the method returns an output
func (m *Method) HasOutput() bool {
	return m.output
}

// InputType returns the type of the method input or nil
func (m *Method) InputType() reflect.Type {
	return m.input
}

// methodTable maps method names to methods. It is immutable once built.
type methodTable map[string]*Method

func (t methodTable) get(actorType, name string) (*Method, error) {
	method, ok := t[name]
	if !ok {
		return nil, gerrors.NewErrMethodNotFound(actorType, name)
	}
	return method, nil
}

func cast[A Actor](actor Actor) (A, error) {
	receiver, ok := actor.(A)
	if !ok {
		return receiver, fmt.Errorf("%w: %T is not a %s", gerrors.ErrInvalidMethod, actor, reflect.TypeFor[A]())
	}
	return receiver, nil
}

// decodeInput deserializes payload into a new In. An empty payload yields the zero value.
func decodeInput[In any](payload []byte, codec serializer.Serializer) (In, error) {
	var in In
	if len(payload) == 0 {
		return in, nil
	}

	var target any = &in
	if typ := reflect.TypeFor[In](); typ.Kind() == reflect.Pointer {
		in = reflect.New(typ.Elem()).Interface().(In)
		target = in
	}

	if err := codec.Deserialize(payload, target); err != nil {
		return in, fmt.Errorf("failed to decode %T input: %w", in, err)
	}
	return in, nil
}

// funcName returns the Go name of a method expression, e.g. "Increment" for
// (*Counter).Increment. Function literals have no usable name and yield "".
func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}

	name := strings.TrimSuffix(f.Name(), "-fm")
	name = strings.ReplaceAll(name, "[...]", "")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	if anonymousFunc.MatchString(name) {
		return ""
	}
	return name
}
