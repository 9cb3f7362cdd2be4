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

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/pbsgopi/ship-proxy-system/internal/xerrors"
)

// MaxFrameLength is the largest payload-plus-id length this implementation
// will accept. The wire format itself imposes no cap; this is the
// SHOULD-enforce ceiling the specification calls for, sized generously
// above any realistic HTTP request/response this proxy relays.
const MaxFrameLength = 64 << 20 // 64 MiB

const lengthPrefixSize = 4

// ReadFrame reads one length-prefixed frame from r: a 4-byte big-endian
// length L, followed by L bytes whose first 16 are the CorrelationID and
// whose remainder is the payload. It fails with ErrorShortRead if the peer
// closes mid-frame, ErrorMalformed if L < IDSize, or ErrorFrameTooLarge if
// L exceeds MaxFrameLength.
func ReadFrame(r io.Reader) (CorrelationID, []byte, error) {
	var id CorrelationID

	var lenBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return id, nil, xerrors.New(ErrorShortRead, "", err)
	}

	length := binary.BigEndian.Uint32(lenBuf[:])

	if length < IDSize {
		return id, nil, xerrors.New(ErrorMalformed, "")
	}

	if length > MaxFrameLength {
		return id, nil, xerrors.New(ErrorFrameTooLarge, "")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return id, nil, xerrors.New(ErrorShortRead, "", err)
	}

	copy(id[:], body[:IDSize])
	return id, body[IDSize:], nil
}

// WriteFrame writes one length-prefixed frame to w: `4-byte L || 16-byte
// id || payload`. Callers sharing a single underlying stream across
// goroutines should serialize through a *FrameWriter instead of calling
// this directly, since concurrent WriteFrame calls on the same stream MUST
// NOT interleave.
func WriteFrame(w io.Writer, id CorrelationID, payload []byte) error {
	length := uint32(IDSize + len(payload))

	buf := make([]byte, lengthPrefixSize+length)
	binary.BigEndian.PutUint32(buf[:lengthPrefixSize], length)
	copy(buf[lengthPrefixSize:lengthPrefixSize+IDSize], id[:])
	copy(buf[lengthPrefixSize+IDSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return xerrors.New(ErrorShortRead, "", err)
	}

	return nil
}

// FrameWriter serializes WriteFrame calls from multiple goroutines onto one
// underlying stream, so frames from, say, a response worker and a CONNECT
// tunnel relay never interleave on the wire.
type FrameWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewFrameWriter wraps w with the mutual exclusion WriteFrame requires.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame writes one frame, holding the writer's lock for the duration.
func (f *FrameWriter) WriteFrame(id CorrelationID, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return WriteFrame(f.w, id, payload)
}
