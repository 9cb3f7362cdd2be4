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
	"strings"

	"github.com/sirupsen/logrus"
)

// Format selects the on-wire shape of each log entry.
type Format uint8

const (
	nilFormat Format = iota
	// TextFormat renders human-readable `key=value` lines.
	TextFormat
	// JsonFormat renders one JSON object per line, for log shipping.
	JsonFormat
)

var curFormat = TextFormat

// SetFormat changes the format used for every subsequent log entry. An
// unrecognized value is ignored.
func SetFormat(f Format) {
	switch f {
	case TextFormat, JsonFormat:
		updateFormatter(f)
	}
}

// GetFormatListString returns every format name, lower-cased.
func GetFormatListString() []string {
	return []string{
		strings.ToLower(TextFormat.String()),
		strings.ToLower(JsonFormat.String()),
	}
}

func updateFormatter(f Format) {
	if f != nilFormat {
		curFormat = f
	}

	stdMu.Lock()
	defer stdMu.Unlock()

	switch curFormat {
	case JsonFormat:
		std.SetFormatter(&logrus.JSONFormatter{})
	default:
		std.SetFormatter(&logrus.TextFormatter{
			DisableColors:   false,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
}

func (f Format) String() string {
	switch f {
	case JsonFormat:
		return "Json"
	default:
		return "Text"
	}
}
