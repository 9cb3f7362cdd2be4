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
	"runtime"
	"strconv"
	"strings"
)

type ers struct {
	c CodeError
	m string
	p []error
	f runtime.Frame
}

func (e *ers) Error() string {
	return e.StringError(GetModeReturnError())
}

func (e *ers) Code() CodeError {
	return e.c
}

func (e *ers) IsCode(code CodeError) bool {
	if e.c == code {
		return true
	}

	for _, p := range e.p {
		if ie, ok := p.(Error); ok && ie.IsCode(code) {
			return true
		}
	}

	return false
}

func (e *ers) Add(parent ...error) Error {
	e.p = append(e.p, cleanParents(parent)...)
	return e
}

func (e *ers) SetParent(parent ...error) Error {
	e.p = cleanParents(parent)
	return e
}

func (e *ers) GetParent() []error {
	return e.p
}

func (e *ers) Unwrap() error {
	if len(e.p) < 1 {
		return nil
	}

	return e.p[0]
}

func (e *ers) Trace() runtime.Frame {
	return e.f
}

func (e *ers) StringError(m ErrorMode) string {
	msg := e.m
	if msg == "" {
		msg = GetMessage(e.c)
	}

	switch m {
	case ModeCode:
		return strconv.Itoa(e.c.Int())
	case ModeMessage:
		return msg
	case ModeFull:
		sb := strings.Builder{}
		sb.WriteString(e.codeMessage(msg))

		for _, p := range e.p {
			sb.WriteString(" <- ")
			sb.WriteString(p.Error())
		}

		if e.f.Function != "" {
			sb.WriteString(" [")
			sb.WriteString(filterPath(e.f.File))
			sb.WriteString("]")
		}

		return sb.String()
	default:
		return e.codeMessage(msg)
	}
}

func (e *ers) codeMessage(msg string) string {
	if msg == "" {
		return e.c.String()
	}

	return strings.TrimSpace(itoa(e.c) + ": " + msg)
}

func itoa(c CodeError) string {
	if c == UNK_ERROR {
		return "unknown"
	}

	return strconv.Itoa(int(c))
}
