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

package wire

import "github.com/pbsgopi/ship-proxy-system/internal/xerrors"

// Error codes owned by the wire package. Every package in this module
// reserves a disjoint range, the same convention the errors package itself
// follows for the packages it ships.
const (
	ErrorShortRead xerrors.CodeError = iota + xerrors.MinPkgWire
	ErrorMalformed
	ErrorFrameTooLarge
)

func init() {
	xerrors.RegisterIdFctMessage(ErrorShortRead, getMessage)
}

func getMessage(code xerrors.CodeError) string {
	switch code {
	case ErrorShortRead:
		return "uplink connection closed mid-frame"
	case ErrorMalformed:
		return "frame length shorter than the correlation id width"
	case ErrorFrameTooLarge:
		return "frame length exceeds the configured maximum"
	}

	return ""
}
