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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/serializer"
)

type profile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type greeter struct {
	Base
	greeted int
}

func (g *greeter) Greet(_ context.Context, name string) (string, error) {
	if name == "" {
		return "", errors.New("name is required")
	}
	g.greeted++
	return "hello " + name, nil
}

func (g *greeter) Describe(_ context.Context, p *profile) (string, error) {
	if p == nil {
		return "nobody", nil
	}
	return p.Name, nil
}

func (g *greeter) Count(context.Context) (int, error) {
	return g.greeted, nil
}

func (g *greeter) Remember(_ context.Context, n int) error {
	g.greeted = n
	return nil
}

func (g *greeter) Forget(context.Context) error {
	g.greeted = 0
	return nil
}

func TestMethodName(t *testing.T) {
	testCases := []struct {
		name     string
		method   *Method
		expected string
		input    bool
		output   bool
	}{
		{name: "method", method: NewMethod((*greeter).Greet), expected: "Greet", input: true, output: true},
		{name: "method without input", method: NewMethodNoInput((*greeter).Count), expected: "Count", output: true},
		{name: "action", method: NewAction((*greeter).Remember), expected: "Remember", input: true},
		{name: "action without input", method: NewActionNoInput((*greeter).Forget), expected: "Forget"},
		{name: "renamed", method: NewActionNoInput((*greeter).Forget).Named("reset"), expected: "reset"},
		{
			name: "function literal",
			method: NewActionNoInput(func(*greeter, context.Context) error {
				return nil
			}),
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.method.Name())
			assert.Equal(t, tc.input, tc.method.HasInput())
			assert.Equal(t, tc.output, tc.method.HasOutput())
		})
	}
}

func TestMethodInvoke(t *testing.T) {
	ctx := context.Background()
	codec := serializer.NewJSON()

	t.Run("decodes the input and encodes the output", func(t *testing.T) {
		instance := new(greeter)
		out, err := NewMethod((*greeter).Greet).invoke(ctx, instance, []byte(`"world"`), codec)
		require.NoError(t, err)
		assert.JSONEq(t, `"hello world"`, string(out))
		assert.Equal(t, 1, instance.greeted)
	})

	t.Run("pointer input", func(t *testing.T) {
		method := NewMethod((*greeter).Describe)
		assert.Equal(t, "*actor.profile", method.InputType().String())

		out, err := method.invoke(ctx, new(greeter), []byte(`{"name":"john","age":42}`), codec)
		require.NoError(t, err)
		assert.JSONEq(t, `"john"`, string(out))
	})

	t.Run("empty payload yields the zero input", func(t *testing.T) {
		out, err := NewMethod((*greeter).Describe).invoke(ctx, new(greeter), nil, codec)
		require.NoError(t, err)
		assert.JSONEq(t, `"nobody"`, string(out))
	})

	t.Run("action without output", func(t *testing.T) {
		instance := new(greeter)
		out, err := NewAction((*greeter).Remember).invoke(ctx, instance, []byte(`7`), codec)
		require.NoError(t, err)
		assert.Nil(t, out)
		assert.Equal(t, 7, instance.greeted)
	})

	t.Run("method error is a business error", func(t *testing.T) {
		_, err := NewMethod((*greeter).Greet).invoke(ctx, new(greeter), []byte(`""`), codec)
		require.Error(t, err)
		var be *gerrors.BusinessError
		assert.ErrorAs(t, err, &be)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := NewMethod((*greeter).Greet).invoke(ctx, new(greeter), []byte(`{`), codec)
		require.Error(t, err)
		var be *gerrors.BusinessError
		assert.False(t, errors.As(err, &be))
	})

	t.Run("wrong receiver", func(t *testing.T) {
		_, err := NewMethod((*greeter).Greet).invoke(ctx, new(broken), []byte(`"world"`), codec)
		require.ErrorIs(t, err, gerrors.ErrInvalidMethod)
	})
}

func TestNewTypeInfo(t *testing.T) {
	factory := func(*RuntimeContext, string) (*greeter, error) { return new(greeter), nil }

	t.Run("happy path", func(t *testing.T) {
		info, err := NewTypeInfo("Greeter", factory,
			NewMethod((*greeter).Greet),
			NewMethodNoInput((*greeter).Count),
			NewActionNoInput((*greeter).Forget).Named("reset"),
		)
		require.NoError(t, err)
		assert.Equal(t, "Greeter", info.Name())
		assert.False(t, info.Remindable())
		assert.Equal(t, []string{"Count", "Greet", "reset"}, info.Methods())

		method, err := info.Method("Greet")
		require.NoError(t, err)
		assert.Equal(t, "Greet", method.Name())

		_, err = info.Method("Unknown")
		require.ErrorIs(t, err, gerrors.ErrMethodNotFound)
	})

	t.Run("remindable", func(t *testing.T) {
		info := alarmTypeInfo(t, nil)
		assert.True(t, info.Remindable())
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := NewTypeInfo("", factory)
		require.ErrorIs(t, err, gerrors.ErrInvalidActorType)

		_, err = NewTypeInfo("my actor", factory)
		require.ErrorIs(t, err, gerrors.ErrInvalidActorType)
	})

	t.Run("nil factory", func(t *testing.T) {
		_, err := NewTypeInfo[*greeter]("Greeter", nil)
		require.ErrorIs(t, err, gerrors.ErrInvalidActorType)
	})

	t.Run("nil method", func(t *testing.T) {
		_, err := NewTypeInfo("Greeter", factory, nil)
		require.ErrorIs(t, err, gerrors.ErrInvalidMethod)
	})

	t.Run("unnamed method", func(t *testing.T) {
		_, err := NewTypeInfo("Greeter", factory, NewActionNoInput(func(*greeter, context.Context) error {
			return nil
		}))
		require.ErrorIs(t, err, gerrors.ErrInvalidMethod)
	})

	t.Run("method of another actor type", func(t *testing.T) {
		_, err := NewTypeInfo("Greeter", factory, NewMethod((*bouncer).Bounce))
		require.ErrorIs(t, err, gerrors.ErrInvalidMethod)
	})

	t.Run("duplicate method", func(t *testing.T) {
		_, err := NewTypeInfo("Greeter", factory,
			NewMethod((*greeter).Greet),
			NewActionNoInput((*greeter).Forget).Named("Greet"),
		)
		require.ErrorIs(t, err, gerrors.ErrDuplicateMethod)
	})

	t.Run("factory returning no instance", func(t *testing.T) {
		info, err := NewTypeInfo("Greeter", func(*RuntimeContext, string) (*greeter, error) {
			return nil, nil
		})
		require.NoError(t, err)

		_, err = info.factory(nil, "id")
		require.ErrorIs(t, err, errNoInstance)
	})
}

func TestIdentity(t *testing.T) {
	identity := NewIdentity("Counter", "c-1")
	assert.Equal(t, "Counter/c-1", identity.String())
	require.NoError(t, identity.Validate())

	require.ErrorIs(t, NewIdentity("", "c-1").Validate(), gerrors.ErrInvalidActorType)
	require.ErrorIs(t, NewIdentity("Counter", "").Validate(), gerrors.ErrInvalidActorID)
	assert.NotEqual(t, NewRandomID(), NewRandomID())
}
