/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "classification",
			err:      CreateClassificationError(42),
			contains: []string{"[CLASSIFICATION_ERROR]", "unrecognized source kind", "int"},
		},
		{
			name:     "bounds",
			err:      CreateBoundsError("x", 7, 3),
			contains: []string{"[BOUNDS_ERROR]", "[0, 3)", "at index 7", "source: x"},
		},
		{
			name:     "shape",
			err:      CreateShapeError("matrix", "expected %d rows, got %d", 4, 5),
			contains: []string{"[SHAPE_ERROR]", "expected 4 rows, got 5"},
		},
		{
			name:     "unknown function",
			err:      CreateUnknownFunctionError("nope"),
			contains: []string{"[UNKNOWN_FUNCTION]", `"nope"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, c := range tt.contains {
				assert.Contains(t, msg, c)
			}
		})
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	sentinel := errors.New("cannot open file for reading")
	err := CreateStorageError("open", "/tmp/x", sentinel, os.ErrNotExist)

	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, Is(err, ErrorTypeStorage))
	assert.False(t, Is(err, ErrorTypeBounds))
	assert.Contains(t, err.Error(), "path /tmp/x")

	wrapped := fmt.Errorf("outer: %w", err)
	typ, ok := TypeOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrorTypeStorage, typ)

	_, ok = TypeOf(errors.New("plain"))
	assert.False(t, ok)
}
