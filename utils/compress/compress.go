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

// Package compress wraps snappy block compression for column payloads.
package compress

import (
	"fmt"

	"github.com/golang/snappy"
)

// Encode compresses a column payload
func Encode(raw []byte) []byte {
	return snappy.Encode(nil, raw)
}

// Decode decompresses block and checks the result is exactly rawLen bytes.
// The length is checked from the block header before anything is allocated.
func Decode(block []byte, rawLen int64) ([]byte, error) {
	n, err := snappy.DecodedLen(block)
	if err != nil {
		return nil, fmt.Errorf("snappy header: %w", err)
	}
	if int64(n) != rawLen {
		return nil, fmt.Errorf("block decodes to %d bytes, expected %d", n, rawLen)
	}
	raw, err := snappy.Decode(make([]byte, n), block)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	return raw, nil
}

// Ratio is the stored size as a fraction of the raw size; 1 for empty input.
func Ratio(raw, stored int64) float64 {
	if raw == 0 {
		return 1
	}
	return float64(stored) / float64(raw)
}
