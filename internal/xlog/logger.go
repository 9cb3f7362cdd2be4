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

package xlog

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	std   = logrus.New()
	stdMu sync.RWMutex
)

func init() {
	updateFormatter(TextFormat)
}

// SetLevel changes the minimum level that reaches the output. NilLevel
// disables logging entirely.
func SetLevel(l Level) {
	stdMu.Lock()
	defer stdMu.Unlock()

	if l == NilLevel {
		std.SetOutput(io.Discard)
		return
	}

	std.SetLevel(l.Logrus())
}

// SetOutput redirects every subsequent log entry to w.
func SetOutput(w io.Writer) {
	stdMu.Lock()
	defer stdMu.Unlock()

	std.SetOutput(w)
}

// Logf logs a formatted message at the given level with no extra fields.
func Logf(l Level, pattern string, args ...interface{}) {
	entry(nil).Logf(l.Logrus(), pattern, args...)
}

// Log logs message at the given level with no extra fields.
func Log(l Level, message string) {
	entry(nil).Log(l.Logrus(), message)
}

// WithFields returns a logrus entry pre-populated with fields, for callers
// that want to chain further logrus calls (e.g. .WithError(err).Error(...)).
func WithFields(fields Fields) *logrus.Entry {
	return entry(fields)
}

// LogError logs err at ErrorLevel with fields and a contextual message. A
// nil err is a no-op, mirroring the convenience helpers every handler in
// this proxy calls on its error-return paths.
func LogError(message string, fields Fields, err error) {
	if err == nil {
		return
	}

	entry(fields).WithError(err).Error(message)
}

func entry(fields Fields) *logrus.Entry {
	stdMu.RLock()
	defer stdMu.RUnlock()

	if len(fields) < 1 {
		return logrus.NewEntry(std)
	}

	return std.WithFields(fields.Logrus())
}
