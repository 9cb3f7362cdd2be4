/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package wire implements the length-prefixed, correlation-tagged framing
// protocol carried over the single uplink connection between a ship node
// and its offshore node.
package wire

import (
	"encoding/hex"

	"github.com/hashicorp/go-uuid"
)

// IDSize is the fixed width, in bytes, of a CorrelationID.
const IDSize = 16

// CorrelationID is the 16-byte opaque key that matches a response frame to
// the request frame that produced it. It is never inspected semantically.
type CorrelationID [IDSize]byte

// Zero is the reserved all-zero CorrelationID, available for an optional
// keepalive frame that carries no request/response payload.
var Zero CorrelationID

// NewCorrelationID mints a fresh, random 128-bit CorrelationID.
func NewCorrelationID() (CorrelationID, error) {
	var id CorrelationID

	b, err := uuid.GenerateRandomBytes(IDSize)
	if err != nil {
		return id, err
	}

	copy(id[:], b)
	return id, nil
}

// IsZero reports whether id is the reserved keepalive sentinel.
func (id CorrelationID) IsZero() bool {
	return id == Zero
}

// String renders the CorrelationID as a lowercase hex string, matching the
// `request_id.hex()` form used for log correlation in the original tool.
func (id CorrelationID) String() string {
	return hex.EncodeToString(id[:])
}
