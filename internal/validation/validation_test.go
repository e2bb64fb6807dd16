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

package validation

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestChain(t *testing.T) {
	t.Run("empty chain is valid", func(t *testing.T) {
		require.NoError(t, New().Validate())
	})

	t.Run("accumulates every violation", func(t *testing.T) {
		err := New().
			AddAssertion(false, "first").
			AddValidator(NewEmptyStringValidator("name", " ")).
			AddAssertion(true, "never").
			Validate()
		require.Error(t, err)
		errs := multierr.Errors(err)
		require.Len(t, errs, 2)
		assert.EqualError(t, errs[0], "first")
		assert.EqualError(t, errs[1], "the [name] is required")
	})

	t.Run("fail fast returns the first violation", func(t *testing.T) {
		err := New(FailFast()).
			AddAssertion(false, "first").
			AddAssertion(false, "second").
			Validate()
		assert.EqualError(t, err, "first")
	})
}

func TestPatternValidator(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+$`)
	require.NoError(t, NewPatternValidator(pattern, "abc", nil).Validate())
	require.Error(t, NewPatternValidator(pattern, "ABC", nil).Validate())

	custom := errors.New("lowercase only")
	assert.ErrorIs(t, NewPatternValidator(pattern, "ABC", custom).Validate(), custom)
}
