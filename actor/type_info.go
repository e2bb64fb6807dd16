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
	"errors"
	"fmt"
	"reflect"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/vactor/errors"
)

// Factory creates the actor instance identified by id.
// A nil instance refuses the activation.
type Factory func(rc *RuntimeContext, id string) (Actor, error)

// TypeInfo describes an actor type: its name, factory and dispatch table.
// It is immutable once built.
type TypeInfo struct {
	name       string
	factory    Factory
	methods    methodTable
	remindable bool
}

// NewTypeInfo creates the TypeInfo of the actor type A.
//
// Each method is registered under its name; two methods resolving to the same
// name is an error, as is a method declared on a type A does not implement.
//
// Example:
//
//	info, err := actor.NewTypeInfo("Counter",
//	    func(*actor.RuntimeContext, string) (*Counter, error) { return new(Counter), nil },
//	    actor.NewMethod((*Counter).Increment),
//	    actor.NewMethodNoInput((*Counter).Get),
//	)
func NewTypeInfo[A Actor](name string, factory func(rc *RuntimeContext, id string) (A, error), methods ...*Method) (*TypeInfo, error) {
	if err := validateType(name).Validate(); err != nil {
		return nil, fmt.Errorf("(type=%s) %w", name, err)
	}

	if factory == nil {
		return nil, fmt.Errorf("(type=%s) %w: factory is required", name, gerrors.ErrInvalidActorType)
	}

	actorType := reflect.TypeFor[A]()
	names := mapset.NewThreadUnsafeSet[string]()
	table := make(methodTable, len(methods))
	for _, method := range methods {
		if method == nil {
			return nil, fmt.Errorf("(type=%s) %w: nil method", name, gerrors.ErrInvalidMethod)
		}

		if method.name == "" {
			return nil, fmt.Errorf("(type=%s) %w: unnamed method, use Named", name, gerrors.ErrInvalidMethod)
		}

		if !actorType.AssignableTo(method.receiver) {
			return nil, fmt.Errorf("(type=%s method=%s) %w: %s is not a %s", name, method.name, gerrors.ErrInvalidMethod, actorType, method.receiver)
		}

		if !names.Add(method.name) {
			return nil, gerrors.NewErrDuplicateMethod(name, method.name)
		}
		table[method.name] = method
	}

	return &TypeInfo{
		name:       name,
		factory:    wrapFactory(factory),
		methods:    table,
		remindable: actorType.Implements(reflect.TypeFor[Remindable]()),
	}, nil
}

// Name returns the actor type name
func (x *TypeInfo) Name() string {
	return x.name
}

// Remindable reports whether the actor type receives reminders
func (x *TypeInfo) Remindable() bool {
	return x.remindable
}

// Methods returns the registered method names in lexical order
func (x *TypeInfo) Methods() []string {
	names := make([]string, 0, len(x.methods))
	for name := range x.methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Method returns the method registered under name
func (x *TypeInfo) Method(name string) (*Method, error) {
	return x.methods.get(x.name, name)
}

var errNoInstance = errors.New("factory returned no instance")

func wrapFactory[A Actor](factory func(rc *RuntimeContext, id string) (A, error)) Factory {
	return func(rc *RuntimeContext, id string) (Actor, error) {
		instance, err := factory(rc, id)
		if err != nil {
			return nil, err
		}

		if isNil(instance) {
			return nil, errNoInstance
		}
		return instance, nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return value.IsNil()
	default:
		return false
	}
}
