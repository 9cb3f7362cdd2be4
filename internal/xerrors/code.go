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

// Package xerrors is the shared error-code foundation for every package in
// this module. Each package reserves a range of codes (see modules.go),
// registers a message function for its own codes in an init(), and builds
// errors with New/Newf so that every error anywhere in the proxy carries a
// stable numeric code alongside its human message and call trace.
package xerrors

import (
	"sort"
	"sync"
)

// CodeError is a stable numeric identifier for a class of error. Packages
// register their own codes starting at their reserved MinPkg value.
type CodeError uint16

const (
	// UNK_ERROR is returned by GetCode for an error that carries no
	// registered code, or used directly to build an error with no code.
	UNK_ERROR CodeError = 0

	// UnknownMessage is substituted when a registered code has no message
	// function, or the function returns an empty string.
	UnknownMessage = "unknown error"
)

var (
	mapMessage   = make(map[CodeError]func(code CodeError) string)
	mapMessageMu sync.RWMutex
)

// RegisterIdFctMessage associates a message lookup function with a code. A
// package calls this once, from its own init(), for the first code in its
// range; the function itself handles every other code the package defines.
func RegisterIdFctMessage(code CodeError, fct func(code CodeError) string) {
	mapMessageMu.Lock()
	defer mapMessageMu.Unlock()

	mapMessage[code] = fct
}

// ExistInMapMessage reports whether a message function is already
// registered for the given code, so a caller (such as a test's setup) can
// avoid registering the same code twice.
func ExistInMapMessage(code CodeError) bool {
	mapMessageMu.RLock()
	defer mapMessageMu.RUnlock()

	_, ok := mapMessage[code]
	return ok
}

// GetCodePackages returns the sorted list of registered range-start codes,
// useful for diagnostics and for tests asserting ranges never collide.
func GetCodePackages() []CodeError {
	mapMessageMu.RLock()
	defer mapMessageMu.RUnlock()

	res := make([]CodeError, 0, len(mapMessage))
	for k := range mapMessage {
		res = append(res, k)
	}

	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// GetMessage resolves the human-readable message for a code by walking
// registered range-starts from the code downward and asking the nearest
// one's message function. Every package registers only its first code, so
// the lookup falls back to the closest lower registered start.
func GetMessage(code CodeError) string {
	if code == UNK_ERROR {
		return ""
	}

	mapMessageMu.RLock()
	fct, ok := mapMessage[code]
	if ok {
		mapMessageMu.RUnlock()
		if msg := fct(code); msg != "" {
			return msg
		}
		return UnknownMessage
	}

	var (
		best    CodeError
		hasBest bool
	)

	for start := range mapMessage {
		if start <= code && (!hasBest || start > best) {
			best = start
			hasBest = true
		}
	}
	mapMessageMu.RUnlock()

	if !hasBest {
		return UnknownMessage
	}

	mapMessageMu.RLock()
	fct = mapMessage[best]
	mapMessageMu.RUnlock()

	if msg := fct(code); msg != "" {
		return msg
	}

	return UnknownMessage
}

// Uint16 returns the raw numeric value of the code.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// Int returns the raw numeric value of the code as an int.
func (c CodeError) Int() int {
	return int(c)
}

// String implements fmt.Stringer, returning the registered message.
func (c CodeError) String() string {
	return GetMessage(c)
}

// Error builds a new Error from this code, optionally wrapping parents.
func (c CodeError) Error(parent ...error) Error {
	return New(c, GetMessage(c), parent...)
}

// Errorf builds a new Error from this code with a formatted message,
// keeping the code's registered message as a prefix.
func (c CodeError) Errorf(pattern string, args ...interface{}) Error {
	return Newf(c, GetMessage(c)+": "+pattern, args...)
}

// IfError returns nil if every given error is nil, otherwise builds a new
// Error from this code wrapping the non-nil ones as parents.
func (c CodeError) IfError(errs ...error) Error {
	var parents []error

	for _, e := range errs {
		if e != nil {
			parents = append(parents, e)
		}
	}

	if len(parents) < 1 {
		return nil
	}

	return New(c, GetMessage(c), parents...)
}
