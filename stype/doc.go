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

/*
Package stype is the type registry of colframe.

Every column carries exactly one storage type (SType). The registry maps each
SType to its physical width, encoding family, logical type (LType) and the
reserved null sentinel of its width. The mapping is fixed at compile time and
built once during package initialization.

# Storage types

	Code  SType        Family       LType
	i1b   Bool8        bool         bool
	i1i   Int8         int          int
	i2i   Int16        int          int
	i4i   Int32        int          int
	i8i   Int64        int          int
	f4r   Float32      float        real
	f8r   Float64      float        real
	i2r   Dec16        decimal      real
	i4r   Dec32        decimal      real
	i8r   Dec64        decimal      real
	i4s   Str32        varstring    str
	i8s   Str64        varstring    str
	u1e   Enum8        enum         str
	i8d   DateEpoch64  temporal     time
	i4t   Time32       temporal     duration
	i4d   Date32       temporal     time
	p8p   Object       object       obj

# Sentinels

Signed integer and decimal types reserve the minimum value of their width,
enum codes reserve the maximum unsigned value and floats reserve a NaN
payload. Variable-width strings mark nulls with negative offsets instead.

Usage:

	info := stype.Int32.Info()
	fmt.Println(info.Code, info.Width, info.LType) // i4i 4 int
*/
package stype
