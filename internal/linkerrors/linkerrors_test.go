// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotandev/xlinker/internal/entry"
)

func TestSentinelErrors(t *testing.T) {
	assert.NotNil(t, ErrFunctionNotFound)
	assert.NotNil(t, ErrFunctionNotExported)
	assert.NotNil(t, ErrDataNotFound)
	assert.NotNil(t, ErrDanglingModule)
	assert.NotNil(t, ErrDependentVersionConflict)
}

func TestWrapFunctionNotFound(t *testing.T) {
	err := WrapFunctionNotFound("hello::world::do_that")
	assert.True(t, errors.Is(err, ErrFunctionNotFound))
	assert.Contains(t, err.Error(), "hello::world::do_that")
}

func TestWrapImportDataSectionMismatch(t *testing.T) {
	err := WrapImportDataSectionMismatch("hello::counter", entry.SectionReadWrite)
	assert.True(t, errors.Is(err, ErrImportDataSectionMismatch))
	assert.Contains(t, err.Error(), "hello::counter")
}

func TestWrapDependentVersionConflict(t *testing.T) {
	err := WrapDependentVersionConflict("encoding")
	assert.True(t, errors.Is(err, ErrDependentVersionConflict))
	assert.Contains(t, err.Error(), "encoding")
}

func TestErrorsAreDistinguishable(t *testing.T) {
	a := WrapFunctionNotFound("x")
	b := WrapDataNotFound("x")
	assert.False(t, errors.Is(a, ErrDataNotFound))
	assert.False(t, errors.Is(b, ErrFunctionNotFound))
}
