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
)

type typeTable struct {
	stypes     [NumSTypes]Info
	ltypeNames [NumLTypes]string
	byCode     map[string]SType
	byName     map[string]SType
}

// registry is built once at package initialization and never mutated.
var registry = mustBuildRegistry()

func intNA(width int) Sentinel {
	// minimum signed value of the width, zero-extended
	return Sentinel{Bits: uint64(1) << (uint(width)*8 - 1), Present: true}
}

func uintNA(width int) Sentinel {
	return Sentinel{Bits: (uint64(1) << (uint(width) * 8)) - 1, Present: true}
}

func mustBuildRegistry() *typeTable {
	t, err := buildRegistry()
	if err != nil {
		panic(fmt.Sprintf("stype: invalid type registry: %v", err))
	}
	return t
}

func buildRegistry() (*typeTable, error) {
	entries := map[SType]Info{
		Void:        {Code: "--", Name: "void", Width: 0, Family: FamilyVoid, LType: Mu},
		Bool8:       {Code: "i1b", Name: "bool8", Width: 1, Family: FamilyBool, LType: Boolean, Sentinel: intNA(1)},
		Int8:        {Code: "i1i", Name: "int8", Width: 1, Family: FamilyInt, LType: Integer, Sentinel: intNA(1)},
		Int16:       {Code: "i2i", Name: "int16", Width: 2, Family: FamilyInt, LType: Integer, Sentinel: intNA(2)},
		Int32:       {Code: "i4i", Name: "int32", Width: 4, Family: FamilyInt, LType: Integer, Sentinel: intNA(4)},
		Int64:       {Code: "i8i", Name: "int64", Width: 8, Family: FamilyInt, LType: Integer, Sentinel: intNA(8)},
		Float32:     {Code: "f4r", Name: "float32", Width: 4, Family: FamilyFloat, LType: Real, Sentinel: Sentinel{Bits: uint64(NAFloat32Bits), Present: true}},
		Float64:     {Code: "f8r", Name: "float64", Width: 8, Family: FamilyFloat, LType: Real, Sentinel: Sentinel{Bits: NAFloat64Bits, Present: true}},
		Dec16:       {Code: "i2r", Name: "dec16", Width: 2, Family: FamilyDecimal, LType: Real, Sentinel: intNA(2)},
		Dec32:       {Code: "i4r", Name: "dec32", Width: 4, Family: FamilyDecimal, LType: Real, Sentinel: intNA(4)},
		Dec64:       {Code: "i8r", Name: "dec64", Width: 8, Family: FamilyDecimal, LType: Real, Sentinel: intNA(8)},
		Str32:       {Code: "i4s", Name: "str32", Width: 4, Family: FamilyVarString, LType: String, VarWidth: true},
		Str64:       {Code: "i8s", Name: "str64", Width: 8, Family: FamilyVarString, LType: String, VarWidth: true},
		StrFixed:    {Code: "c#s", Name: "strfixed", Width: 0, Family: FamilyFixedString, LType: String, VarWidth: true},
		Enum8:       {Code: "u1e", Name: "enum8", Width: 1, Family: FamilyEnum, LType: String, Sentinel: uintNA(1)},
		Enum16:      {Code: "u2e", Name: "enum16", Width: 2, Family: FamilyEnum, LType: String, Sentinel: uintNA(2)},
		Enum32:      {Code: "u4e", Name: "enum32", Width: 4, Family: FamilyEnum, LType: String, Sentinel: uintNA(4)},
		DateEpoch64: {Code: "i8d", Name: "datetime64", Width: 8, Family: FamilyTemporal, LType: Datetime, Sentinel: intNA(8)},
		DatePrtmn64: {Code: "i8t", Name: "datetime_prtmn64", Width: 8, Family: FamilyTemporal, LType: Datetime, Sentinel: intNA(8)},
		Time32:      {Code: "i4t", Name: "time32", Width: 4, Family: FamilyTemporal, LType: Duration, Sentinel: intNA(4)},
		Date32:      {Code: "i4d", Name: "date32", Width: 4, Family: FamilyTemporal, LType: Datetime, Sentinel: intNA(4)},
		Month16:     {Code: "i2d", Name: "month16", Width: 2, Family: FamilyTemporal, LType: Datetime, Sentinel: intNA(2)},
		Object:      {Code: "p8p", Name: "object", Width: 8, Family: FamilyObject, LType: ObjectL},
	}

	t := &typeTable{
		byCode: make(map[string]SType, len(entries)),
		byName: make(map[string]SType, len(entries)),
		ltypeNames: [NumLTypes]string{
			Mu:       "mu",
			Boolean:  "bool",
			Integer:  "int",
			Real:     "real",
			String:   "str",
			Datetime: "time",
			Duration: "duration",
			ObjectL:  "obj",
		},
	}

	for i, name := range t.ltypeNames {
		if name == "" {
			return nil, fmt.Errorf("ltype %d has no display name", i)
		}
	}

	for st := SType(0); st < NumSTypes; st++ {
		info, ok := entries[st]
		if !ok {
			return nil, fmt.Errorf("stype %d has no entry", st)
		}
		if info.Code == "" {
			return nil, fmt.Errorf("stype %d has an empty code", st)
		}
		if _, dup := t.byCode[info.Code]; dup {
			return nil, fmt.Errorf("duplicate stype code %q", info.Code)
		}
		fixed := !info.VarWidth && info.Family != FamilyVoid
		if fixed && info.Width <= 0 {
			return nil, fmt.Errorf("fixed-width stype %s has width %d", info.Code, info.Width)
		}
		if info.LType >= NumLTypes {
			return nil, fmt.Errorf("stype %s has invalid ltype %d", info.Code, info.LType)
		}
		if _, dup := t.byName[info.Name]; dup {
			return nil, fmt.Errorf("duplicate stype name %q", info.Name)
		}
		t.byCode[info.Code] = st
		t.byName[info.Name] = st
		t.stypes[st] = info
	}
	if len(entries) != int(NumSTypes) {
		return nil, fmt.Errorf("registry has %d entries for %d stypes", len(entries), NumSTypes)
	}
	return t, nil
}

// Lookup returns the registry entry for s. An out-of-range s is a programming
// error and panics.
func Lookup(s SType) Info {
	if !s.Valid() {
		panic(fmt.Sprintf("stype: value %d out of range [0, %d)", uint8(s), NumSTypes))
	}
	return registry.stypes[s]
}

// ParseCode maps a type code such as "f8r" back to its SType.
func ParseCode(code string) (SType, bool) {
	st, ok := registry.byCode[code]
	return st, ok
}

// ParseName maps a type name such as "float64" back to its SType.
func ParseName(name string) (SType, bool) {
	st, ok := registry.byName[name]
	return st, ok
}

// All returns every storage type in enumeration order.
func All() []SType {
	out := make([]SType, 0, NumSTypes)
	for st := SType(0); st < NumSTypes; st++ {
		out = append(out, st)
	}
	return out
}

// Comparable reports whether values of a and b belong to the same logical family.
func Comparable(a, b SType) bool {
	return a.LType() == b.LType()
}
