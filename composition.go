// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
	"io"
)

// ErrCompositionClosed is returned if a Composition is used after Close.
var ErrCompositionClosed = errors.New("composition is closed")

// Composition is the result of Composer.Compose. It owns the header Buffer, the Cursors and the Parts
// of exactly one send operation.
//
// A Composition is not safe for concurrent use. It must be closed once the transport is done with it,
// regardless of the outcome of the delivery.
type Composition struct {
	buf      *Buffer
	header   *Cursor
	parts    []*Part
	boundary string
	from     string
	rcpts    []string
	streamed int64
	closed   bool
}

// Header returns the Cursor that serves the header block. Without attachment it also serves the body.
func (c *Composition) Header() *Cursor {
	return c.header
}

// Parts returns the multipart Parts of the Composition. It is empty if the Message has no attachment.
func (c *Composition) Parts() []*Part {
	return c.parts
}

// IsMultipart reports whether the Composition is a multipart/mixed message.
func (c *Composition) IsMultipart() bool {
	return c.boundary != ""
}

// Boundary returns the multipart boundary, or an empty string for single part Compositions.
func (c *Composition) Boundary() string {
	return c.boundary
}

// EnvelopeFrom returns the address for the SMTP MAIL FROM command.
func (c *Composition) EnvelopeFrom() string {
	return c.from
}

// EnvelopeRecipients returns the addresses for the SMTP RCPT TO commands: the To, Cc and Bcc entries.
func (c *Composition) EnvelopeRecipients() []string {
	return c.rcpts
}

// Streamed returns the number of bytes written by all calls to WriteTo.
func (c *Composition) Streamed() int64 {
	return c.streamed
}

// WriteTo satisfies the io.WriterTo interface for the Composition. It pulls the complete message from
// the Cursors and writes it to w. Base64 Parts are encoded on the fly.
func (c *Composition) WriteTo(w io.Writer) (int64, error) {
	if c.closed {
		return 0, ErrCompositionClosed
	}
	mw := &msgWriter{w: w}
	mw.writeComposition(c)
	c.streamed += mw.n
	return mw.n, mw.err
}

// Rewind moves every Cursor of the Composition back to the start, so that the message can be written
// again. Cursors that normalize line endings cannot be rewound once they were read from, Rewind then
// fails with ErrSeekUnsupported and the caller has to compose the Message again.
func (c *Composition) Rewind() error {
	if c.closed {
		return ErrCompositionClosed
	}
	cursors := []*Cursor{c.header}
	for _, p := range c.parts {
		cursors = append(cursors, p.cursor)
	}
	for _, cur := range cursors {
		if cur.Normalizing() && !cur.atStart() {
			return fmt.Errorf("failed to rewind composition: %w", ErrSeekUnsupported)
		}
	}
	for _, cur := range cursors {
		if !cur.Seekable() {
			continue
		}
		if _, err := cur.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind composition: %w", err)
		}
	}
	return nil
}

// Close releases the Buffer, the Cursors and the Parts of the Composition. Calling Close more than once
// is a no-op.
func (c *Composition) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for _, p := range c.parts {
		p.release()
	}
	c.parts = nil
	if c.header != nil {
		c.header.Release()
		c.header = nil
	}
	if c.buf != nil {
		c.buf.Release()
		c.buf = nil
	}
	return nil
}
