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

import (
	"errors"
	"fmt"
	"runtime"
)

// Error is the common error type returned by every package in this module.
// It behaves as a plain error but additionally carries a numeric CodeError,
// a chain of parent errors, and the call frame where it was created.
type Error interface {
	error

	// Code returns the CodeError this error was created with.
	Code() CodeError

	// IsCode reports whether this error, or any of its parents, carries
	// the given code.
	IsCode(code CodeError) bool

	// Add appends further parent errors to this one.
	Add(parent ...error) Error

	// SetParent replaces the full parent chain with the given errors.
	SetParent(parent ...error) Error

	// GetParent returns the immediate parent chain as plain errors.
	GetParent() []error

	// Unwrap supports errors.Is / errors.As over the parent chain.
	Unwrap() error

	// Trace returns the call frame captured at creation time.
	Trace() runtime.Frame

	// StringError renders the full chain as one line, using the given mode.
	StringError(m ErrorMode) string
}

// New builds an Error from a code, a message and an optional list of
// parent errors that caused it.
func New(code CodeError, message string, parent ...error) Error {
	return &ers{
		c: code,
		m: message,
		p: cleanParents(parent),
		f: getFrame(),
	}
}

// Newf builds an Error from a code and a formatted message.
func Newf(code CodeError, pattern string, args ...interface{}) Error {
	return &ers{
		c: code,
		m: fmt.Sprintf(pattern, args...),
		f: getFrame(),
	}
}

// Is reports whether err, or any error in err's parent chain, matches
// target the way the standard errors.Is does.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// IsCode reports whether err is an Error carrying the given code, anywhere
// in its parent chain.
func IsCode(err error, code CodeError) bool {
	var e Error
	if errors.As(err, &e) {
		return e.IsCode(code)
	}

	return false
}

// Make wraps a plain error as an Error with code UNK_ERROR, or returns nil
// if err is nil. If err is already an Error, it is returned unchanged.
func Make(err error) Error {
	if err == nil {
		return nil
	}

	if e, ok := err.(Error); ok {
		return e
	}

	return &ers{c: UNK_ERROR, m: err.Error(), f: getFrame()}
}

// IfError returns nil if err is nil, otherwise the same as Make(err).
func IfError(err error) Error {
	if err == nil {
		return nil
	}

	return Make(err)
}

func cleanParents(parent []error) []error {
	res := make([]error, 0, len(parent))

	for _, p := range parent {
		if p != nil {
			res = append(res, p)
		}
	}

	return res
}
