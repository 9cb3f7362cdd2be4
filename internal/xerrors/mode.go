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

package xerrors

import "sync"

// ErrorMode governs how (*ers).Error() renders itself as a plain string,
// which in turn governs how errors appear in log lines.
type ErrorMode uint8

const (
	// ModeCode renders just the numeric code, e.g. "500".
	ModeCode ErrorMode = iota
	// ModeMessage renders the registered message, e.g. "origin dial failed".
	ModeMessage
	// ModeCodeMessage renders "<code>: <message>".
	ModeCodeMessage
	// ModeFull renders "<code>: <message>" followed by every parent error
	// joined with " <- ".
	ModeFull
)

var (
	modeReturn   = ModeCodeMessage
	modeReturnMu sync.RWMutex
)

// SetModeReturnError changes the package-wide default rendering mode used
// by (*ers).Error() when no override is requested.
func SetModeReturnError(m ErrorMode) {
	modeReturnMu.Lock()
	defer modeReturnMu.Unlock()

	modeReturn = m
}

// GetModeReturnError returns the package-wide default rendering mode.
func GetModeReturnError() ErrorMode {
	modeReturnMu.RLock()
	defer modeReturnMu.RUnlock()

	return modeReturn
}

func (m ErrorMode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeMessage:
		return "message"
	case ModeCodeMessage:
		return "code+message"
	case ModeFull:
		return "full"
	}

	return "unknown"
}
