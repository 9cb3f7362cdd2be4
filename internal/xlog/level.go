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

// Package xlog is the structured logging layer shared by the ship and
// offshore nodes. It wraps logrus behind a small Level/Fields surface so
// every package logs the same way regardless of which node it runs in.
package xlog

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the severity of a log entry.
type Level uint8

const (
	// PanicLevel logs then panics.
	PanicLevel Level = iota
	// FatalLevel logs then os.Exit(1).
	FatalLevel
	// ErrorLevel logs a condition the caller cannot continue past.
	ErrorLevel
	// WarnLevel logs a condition the caller continues past.
	WarnLevel
	// InfoLevel logs a notable event with no impact on the caller.
	InfoLevel
	// DebugLevel logs detail only useful when investigating a problem.
	DebugLevel
	// NilLevel disables logging entirely; SetLevel(NilLevel) discards all output.
	NilLevel
)

// GetLevelListString returns every level name, lower-cased, in order.
func GetLevelListString() []string {
	return []string{
		strings.ToLower(PanicLevel.String()),
		strings.ToLower(FatalLevel.String()),
		strings.ToLower(ErrorLevel.String()),
		strings.ToLower(WarnLevel.String()),
		strings.ToLower(InfoLevel.String()),
		strings.ToLower(DebugLevel.String()),
	}
}

// GetLevelString resolves a level name to a Level, defaulting to InfoLevel
// for anything unrecognized.
func GetLevelString(l string) Level {
	switch strings.ToLower(l) {
	case strings.ToLower(PanicLevel.String()):
		return PanicLevel
	case strings.ToLower(FatalLevel.String()):
		return FatalLevel
	case strings.ToLower(ErrorLevel.String()):
		return ErrorLevel
	case strings.ToLower(WarnLevel.String()):
		return WarnLevel
	case strings.ToLower(InfoLevel.String()):
		return InfoLevel
	case strings.ToLower(DebugLevel.String()):
		return DebugLevel
	}

	return InfoLevel
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case FatalLevel:
		return "Fatal"
	case PanicLevel:
		return "Panic"
	case NilLevel:
		return ""
	}

	return "unknown"
}

// Logrus converts a Level to its logrus equivalent.
func (l Level) Logrus() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	case PanicLevel:
		return logrus.PanicLevel
	default:
		return logrus.TraceLevel
	}
}
