// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSeekUnsupported is returned if Seek is called on a Cursor that normalizes line endings. A
	// normalized stream cannot be addressed by raw byte offsets, the caller has to start over with a
	// fresh Composition.
	ErrSeekUnsupported = errors.New("seek is not supported on a normalizing cursor")

	// ErrNegativeOffset is returned if a Seek would result in a negative position.
	ErrNegativeOffset = errors.New("seek to negative offset")

	// ErrInvalidWhence is returned if Seek is called with an unknown whence value.
	ErrInvalidWhence = errors.New("invalid whence")
)

// crlf is the line ending of SMTP messages. Slices of it are queued as synthetic output, they are
// never written to.
var crlf = []byte{'\r', '\n'}

// Cursor is a pull-based reader over an optional header region followed by a data region.
//
// Every call to Read serves bytes from exactly one source: pending synthetic bytes, the header region,
// the CRLF separator that follows a non-empty header region, or the data region. Once everything has
// been served, Read returns 0 and io.EOF, also on every following call.
//
// If normalization is enabled, bare LF line endings in the data region are expanded to CRLF while
// reading and a non-empty data region that does not end with LF gets a final CRLF. A trailing lone CR
// does not count as a line ending, "a\r" is served as "a\r\r\n". Existing CRLF pairs and lone CR
// bytes are passed through unchanged. Whether an LF is bare is decided by the
// preceding byte of the source, so a read can be split at any point without changing the output.
//
// A Cursor is not safe for concurrent use. It never copies the regions it was created with, the caller
// must not modify them while the Cursor is in use.
type Cursor struct {
	header []byte
	hpos   int

	data []byte
	pos  int

	normalize  bool
	drained    bool
	terminated bool
	pend       []byte
}

// NewCursor returns a Cursor that serves header, a CRLF separator if header is not empty, and then
// data. If normalize is true, the data region is served with normalized line endings.
func NewCursor(header, data []byte, normalize bool) *Cursor {
	return &Cursor{header: header, data: data, normalize: normalize}
}

// Read satisfies the io.Reader interface for the Cursor.
func (c *Cursor) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(c.pend) > 0 {
		return c.readPending(p), nil
	}
	if c.hpos < len(c.header) {
		n := copy(p, c.header[c.hpos:])
		c.hpos += n
		return n, nil
	}
	if len(c.header) > 0 && !c.drained {
		c.drained = true
		c.pend = crlf
		return c.readPending(p), nil
	}
	if c.pos < len(c.data) {
		if !c.normalize {
			n := copy(p, c.data[c.pos:])
			c.pos += n
			return n, nil
		}
		return c.readNormalized(p), nil
	}
	if c.needsTerminator() {
		c.terminated = true
		c.pend = crlf
		return c.readPending(p), nil
	}
	return 0, io.EOF
}

// Seek satisfies the io.Seeker interface for the Cursor.
//
// The offset addresses the complete stream served by Read, that is the header region, the separator
// and the data region. Seeking beyond the end is allowed, the following Read returns io.EOF. Seek fails
// without changing the position if the resulting offset is negative and always fails with
// ErrSeekUnsupported on a normalizing Cursor.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	if c.normalize {
		return 0, ErrSeekUnsupported
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = c.offset() + offset
	case io.SeekEnd:
		abs = c.Size() + offset
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeOffset, abs)
	}
	c.setOffset(abs)
	return abs, nil
}

// Size returns the total number of bytes the Cursor serves from the beginning, or -1 if the Cursor
// normalizes line endings and the size is not known in advance.
func (c *Cursor) Size() int64 {
	if c.normalize {
		return -1
	}
	return int64(len(c.header) + c.separatorLen() + len(c.data))
}

// Seekable reports whether Seek is supported by the Cursor.
func (c *Cursor) Seekable() bool {
	return !c.normalize
}

// Normalizing reports whether the Cursor converts bare LF line endings to CRLF.
func (c *Cursor) Normalizing() bool {
	return c.normalize
}

// Release drops the references to the regions of the Cursor. Every following Read returns io.EOF.
func (c *Cursor) Release() {
	c.header = nil
	c.data = nil
	c.pend = nil
	c.hpos = 0
	c.pos = 0
	c.drained = true
	c.terminated = true
}

// atStart reports whether nothing has been read from the Cursor yet.
func (c *Cursor) atStart() bool {
	return c.hpos == 0 && c.pos == 0 && len(c.pend) == 0 && !c.drained && !c.terminated
}

// readPending serves queued synthetic bytes.
func (c *Cursor) readPending(p []byte) int {
	n := copy(p, c.pend)
	c.pend = c.pend[n:]
	return n
}

// readNormalized copies from the data region into p while expanding bare LF to CRLF. The source
// position is advanced by exactly the number of consumed source bytes. If an expansion does not fit
// into p, the copy stops before that byte, unless nothing was written yet: then the CR is written, the
// LF is consumed and the remaining LF is queued, so every call makes progress.
func (c *Cursor) readNormalized(p []byte) int {
	n := 0
	for c.pos < len(c.data) && n < len(p) {
		b := c.data[c.pos]
		if b == '\n' && (c.pos == 0 || c.data[c.pos-1] != '\r') {
			if len(p)-n < 2 {
				if n > 0 {
					break
				}
				p[0] = '\r'
				c.pos++
				c.pend = crlf[1:]
				return 1
			}
			p[n], p[n+1] = '\r', '\n'
			n += 2
			c.pos++
			continue
		}
		p[n] = b
		n++
		c.pos++
	}
	return n
}

// needsTerminator reports whether a normalizing Cursor still has to emit the final CRLF.
func (c *Cursor) needsTerminator() bool {
	return c.normalize && !c.terminated && len(c.data) > 0 && c.data[len(c.data)-1] != '\n'
}

// separatorLen returns the length of the separator between header and data region.
func (c *Cursor) separatorLen() int {
	if len(c.header) == 0 {
		return 0
	}
	return len(crlf)
}

// offset returns the current position in the stream of a non-normalizing Cursor.
func (c *Cursor) offset() int64 {
	switch {
	case c.hpos < len(c.header):
		return int64(c.hpos)
	case len(c.header) > 0 && !c.drained:
		return int64(len(c.header))
	case len(c.pend) > 0:
		return int64(len(c.header) + len(crlf) - len(c.pend))
	default:
		return int64(len(c.header) + c.separatorLen() + c.pos)
	}
}

// setOffset moves a non-normalizing Cursor to the given position in the stream.
func (c *Cursor) setOffset(abs int64) {
	hlen, slen := int64(len(c.header)), int64(c.separatorLen())
	c.pend = nil
	switch {
	case abs <= hlen:
		c.hpos = int(abs)
		c.drained = false
		c.pos = 0
	case abs < hlen+slen:
		c.hpos = len(c.header)
		c.drained = true
		c.pend = crlf[abs-hlen:]
		c.pos = 0
	default:
		c.hpos = len(c.header)
		c.drained = true
		c.pos = int(abs - hlen - slen)
	}
}
