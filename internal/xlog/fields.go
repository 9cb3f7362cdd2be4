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

import "github.com/sirupsen/logrus"

// Fields is a set of structured key/value pairs attached to a log entry,
// e.g. the correlation id and origin host of a request being handled.
type Fields map[string]interface{}

// NewFields returns an empty Fields set.
func NewFields() Fields {
	return make(Fields)
}

func (f Fields) clone() Fields {
	res := make(Fields, len(f))
	for k, v := range f {
		res[k] = v
	}

	return res
}

// Add returns a copy of f with key set to val.
func (f Fields) Add(key string, val interface{}) Fields {
	res := f.clone()
	res[key] = val

	return res
}

// Merge returns a copy of f with every key of other overlaid on top.
func (f Fields) Merge(other Fields) Fields {
	if len(other) < 1 {
		return f
	}

	res := f.clone()
	for k, v := range other {
		res[k] = v
	}

	return res
}

// Logrus converts Fields to logrus.Fields for use with a logrus entry.
func (f Fields) Logrus() logrus.Fields {
	return logrus.Fields(f.clone())
}
