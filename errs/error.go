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

// Package errs defines the error taxonomy shared by every colframe package.
//
// Classification, shape, not-implemented, bounds and invalid-column errors are
// contract errors raised by the engine itself. Storage errors wrap the failure
// reported by the operating system and always name the path involved.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies an Error
type ErrorType int

const (
	// ErrorTypeClassification source value matches no known head variant
	ErrorTypeClassification ErrorType = iota
	// ErrorTypeShape row or column count does not fit the evaluation scope
	ErrorTypeShape
	// ErrorTypeNotImplemented storage type has no materializer
	ErrorTypeNotImplemented
	// ErrorTypeBounds row index outside a column's extent
	ErrorTypeBounds
	// ErrorTypeStorage failure reported by the storage provider
	ErrorTypeStorage
	// ErrorTypeUnknownFunction frame function id is not registered
	ErrorTypeUnknownFunction
	// ErrorTypeInvalidColumn buffer or metadata does not match the stype
	ErrorTypeInvalidColumn
)

// Error is the single error type returned by colframe packages.
type Error struct {
	Type    ErrorType
	Message string
	// Source describes the offending input, e.g. a Go type or column name.
	Source string
	// Index is the offending row/column index, -1 when not applicable.
	Index int
	// Op and Path are set for storage errors.
	Op   string
	Path string
	// Sentinel is a package-level error that callers can match with errors.Is.
	Sentinel error
	Cause    error
}

// Error implements the error interface
func (e *Error) Error() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("[%s] %s", e.getErrorTypeName(), e.Message))

	if e.Source != "" {
		builder.WriteString(fmt.Sprintf(" (source: %s)", e.Source))
	}
	if e.Index >= 0 {
		builder.WriteString(fmt.Sprintf(" at index %d", e.Index))
	}
	if e.Path != "" {
		builder.WriteString(fmt.Sprintf(", path %s", e.Path))
	}
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}
	return builder.String()
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	var out []error
	if e.Sentinel != nil {
		out = append(out, e.Sentinel)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

func (e *Error) getErrorTypeName() string {
	switch e.Type {
	case ErrorTypeClassification:
		return "CLASSIFICATION_ERROR"
	case ErrorTypeShape:
		return "SHAPE_ERROR"
	case ErrorTypeNotImplemented:
		return "NOT_IMPLEMENTED"
	case ErrorTypeBounds:
		return "BOUNDS_ERROR"
	case ErrorTypeStorage:
		return "STORAGE_ERROR"
	case ErrorTypeUnknownFunction:
		return "UNKNOWN_FUNCTION"
	case ErrorTypeInvalidColumn:
		return "INVALID_COLUMN"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Is reports whether any error in err's chain is an *Error of the given type.
func Is(err error, t ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == t
}

// TypeOf returns the ErrorType of err and whether err is an *Error at all.
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Type, true
}

// CreateClassificationError reports a source that no head variant accepts.
func CreateClassificationError(src any) *Error {
	return &Error{
		Type:    ErrorTypeClassification,
		Message: "unrecognized source kind",
		Source:  fmt.Sprintf("%T", src),
		Index:   -1,
	}
}

// CreateShapeError reports a shape that is incompatible with the evaluation scope.
func CreateShapeError(source string, format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeShape,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
		Index:   -1,
	}
}

// CreateNotImplementedError reports a storage type with no materializer.
func CreateNotImplementedError(what string, code int) *Error {
	return &Error{
		Type:    ErrorTypeNotImplemented,
		Message: fmt.Sprintf("cannot materialize values of type %s", what),
		Index:   code,
	}
}

// CreateBoundsError reports a row index outside [0, nrows).
func CreateBoundsError(source string, index, nrows int) *Error {
	return &Error{
		Type:    ErrorTypeBounds,
		Message: fmt.Sprintf("row index out of range [0, %d)", nrows),
		Source:  source,
		Index:   index,
	}
}

// CreateInvalidColumnError reports a buffer or metadata that does not fit the stype.
func CreateInvalidColumnError(source string, format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeInvalidColumn,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
		Index:   -1,
	}
}

// CreateUnknownFunctionError reports a frame function id missing from the registry.
func CreateUnknownFunctionError(id string) *Error {
	return &Error{
		Type:    ErrorTypeUnknownFunction,
		Message: fmt.Sprintf("frame function %q is not registered", id),
		Index:   -1,
	}
}

// CreateStorageError wraps an operating system failure for op on path.
func CreateStorageError(op, path string, sentinel, cause error) *Error {
	msg := "storage operation failed"
	if sentinel != nil {
		msg = sentinel.Error()
	}
	return &Error{
		Type:     ErrorTypeStorage,
		Message:  msg,
		Index:    -1,
		Op:       op,
		Path:     path,
		Sentinel: sentinel,
		Cause:    cause,
	}
}
