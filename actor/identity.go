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
	"regexp"

	"github.com/google/uuid"

	gerrors "github.com/tochemey/vactor/errors"
	"github.com/tochemey/vactor/internal/validation"
)

const identitySeparator = "/"

// typeNamePattern restricts actor type names to characters that are safe in
// URL paths and state keys.
var typeNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]*$`)

// Identity uniquely identifies an actor instance: an actor type and an actor id.
// Two actor types may share an id space, hence the id alone is not an identity.
type Identity struct {
	// Type is the actor type name
	Type string
	// ID is the actor id within its type
	ID string
}

// NewIdentity creates an Identity
func NewIdentity(actorType, actorID string) Identity {
	return Identity{Type: actorType, ID: actorID}
}

// String returns the "type/id" representation of the identity
func (x Identity) String() string {
	return x.Type + identitySeparator + x.ID
}

// Validate checks the identity is usable
func (x Identity) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validateType(x.Type)).
		AddValidator(validateID(x.ID)).
		Validate()
}

// NewRandomID returns a random actor id
func NewRandomID() string {
	return uuid.NewString()
}

func validateType(actorType string) validation.Validator {
	return validation.NewPatternValidator(typeNamePattern, actorType, gerrors.ErrInvalidActorType)
}

func validateID(actorID string) validation.Validator {
	return validation.ValidatorFunc(func() error {
		if err := validation.NewEmptyStringValidator("actor id", actorID).Validate(); err != nil {
			return gerrors.ErrInvalidActorID
		}
		return nil
	})
}
