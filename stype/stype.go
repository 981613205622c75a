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

package stype

import (
	"fmt"
	"math"
)

// SType is the storage type of a column: its physical width and encoding.
type SType uint8

const (
	Void SType = iota
	Bool8
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	// Dec16..Dec64 are fixed-point decimals, the scale lives in column metadata
	Dec16
	Dec32
	Dec64
	// Str32 and Str64 are variable-width strings with 32/64-bit offsets
	Str32
	Str64
	StrFixed
	// Enum8..Enum32 are unsigned codes into a level dictionary
	Enum8
	Enum16
	Enum32
	// DateEpoch64 milliseconds since the Unix epoch
	DateEpoch64
	DatePrtmn64
	// Time32 milliseconds since midnight
	Time32
	// Date32 days since the Unix epoch
	Date32
	Month16
	// Object opaque value owned outside the column buffer
	Object

	// NumSTypes is the number of storage types
	NumSTypes
)

// LType is the logical family of a storage type.
type LType uint8

const (
	Mu LType = iota
	Boolean
	Integer
	Real
	String
	Datetime
	Duration
	ObjectL

	// NumLTypes is the number of logical types
	NumLTypes
)

// Family is the physical encoding family of a storage type.
type Family uint8

const (
	FamilyVoid Family = iota
	FamilyBool
	FamilyInt
	FamilyFloat
	FamilyDecimal
	FamilyVarString
	FamilyFixedString
	FamilyEnum
	FamilyTemporal
	FamilyObject
)

// Reserved float bit patterns. They are NaN payloads that arithmetic never produces.
const (
	NAFloat32Bits uint32 = 0x7F8007A2
	NAFloat64Bits uint64 = 0x7FF00000000007A2
)

// Integer sentinels
const (
	NAInt8  int8  = math.MinInt8
	NAInt16 int16 = math.MinInt16
	NAInt32 int32 = math.MinInt32
	NAInt64 int64 = math.MinInt64

	NAUint8  uint8  = math.MaxUint8
	NAUint16 uint16 = math.MaxUint16
	NAUint32 uint32 = math.MaxUint32
)

// Sentinel is the reserved "no value" bit pattern of a fixed-width type.
// Bits holds the pattern zero-extended to 64 bits; Present is false for
// types that mark nulls some other way (offsets, nil references).
type Sentinel struct {
	Bits    uint64
	Present bool
}

// Info describes one storage type.
type Info struct {
	Code     string
	Name     string
	Width    int
	Family   Family
	LType    LType
	VarWidth bool
	Sentinel Sentinel
}

// String returns the storage type code, e.g. "i4i"
func (s SType) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stype(%d)", uint8(s))
	}
	return registry.stypes[s].Code
}

// Valid reports whether s is inside the enumeration
func (s SType) Valid() bool {
	return s < NumSTypes
}

// Info returns the registry entry. It panics when s is out of range.
func (s SType) Info() Info {
	return Lookup(s)
}

// LType returns the logical type of s
func (s SType) LType() LType {
	return Lookup(s).LType
}

// Width returns the physical width in bytes (offset width for variable strings)
func (s SType) Width() int {
	return Lookup(s).Width
}

// String returns the display name of the logical type
func (l LType) String() string {
	if l >= NumLTypes {
		return fmt.Sprintf("ltype(%d)", uint8(l))
	}
	return registry.ltypeNames[l]
}

func (f Family) String() string {
	switch f {
	case FamilyVoid:
		return "void"
	case FamilyBool:
		return "bool"
	case FamilyInt:
		return "int"
	case FamilyFloat:
		return "float"
	case FamilyDecimal:
		return "decimal"
	case FamilyVarString:
		return "varstring"
	case FamilyFixedString:
		return "fixedstring"
	case FamilyEnum:
		return "enum"
	case FamilyTemporal:
		return "temporal"
	case FamilyObject:
		return "object"
	default:
		return "unknown"
	}
}
