// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
)

// ChunkSize is the number of bytes the msgWriter pulls from a Cursor per Read call.
const ChunkSize = 4096

// msgWriter handles the I/O to the io.Writer of the transport
type msgWriter struct {
	err error
	mpw *multipart.Writer
	n   int64
	pw  io.Writer
	w   io.Writer
}

// Write implements the io.Writer interface for msgWriter
func (mw *msgWriter) Write(p []byte) (int, error) {
	if mw.err != nil {
		return 0, fmt.Errorf("failed to write due to previous error: %w", mw.err)
	}

	var n int
	n, mw.err = mw.w.Write(p)
	mw.n += int64(n)
	return n, mw.err
}

// writeComposition streams the header Cursor and all Parts of the Composition to the io.Writer
func (mw *msgWriter) writeComposition(c *Composition) {
	mw.pull(mw, c.header)
	if !c.IsMultipart() {
		return
	}

	mw.startMP(c.boundary)
	for _, p := range c.parts {
		mw.writePart(p)
	}
	mw.stopMP()
}

// startMP starts the multipart/mixed body with the given boundary
func (mw *msgWriter) startMP(b string) {
	if mw.err != nil {
		return
	}
	mw.mpw = multipart.NewWriter(mw)
	if err := mw.mpw.SetBoundary(b); err != nil {
		mw.err = fmt.Errorf("invalid multipart boundary %q: %w", b, err)
	}
}

// stopMP writes the closing boundary
func (mw *msgWriter) stopMP() {
	if mw.err != nil || mw.mpw == nil {
		return
	}
	mw.err = mw.mpw.Close()
}

// writePart writes the part header and the encoded content of the Part
func (mw *msgWriter) writePart(p *Part) {
	if mw.err != nil {
		return
	}
	mw.pw, mw.err = mw.mpw.CreatePart(p.header())
	if mw.err != nil {
		return
	}
	mw.writeBody(p.cursor, p.enc)
}

// writeBody pulls the Cursor into the current part writer using the provided Encoding
func (mw *msgWriter) writeBody(c *Cursor, e Encoding) {
	switch e {
	case EncodingB64:
		lb := &Base64LineBreaker{out: mw.pw}
		ew := base64.NewEncoder(base64.StdEncoding, lb)
		mw.pull(ew, c)
		if mw.err != nil {
			return
		}
		if err := ew.Close(); err != nil {
			mw.err = fmt.Errorf("failed to close base64 encoder: %w", err)
			return
		}
		if err := lb.Close(); err != nil {
			mw.err = fmt.Errorf("failed to close base64 line breaker: %w", err)
		}
	default:
		mw.pull(mw.pw, c)
	}
}

// pull reads the Cursor in chunks of ChunkSize bytes until io.EOF and writes every chunk to w
func (mw *msgWriter) pull(w io.Writer, c *Cursor) {
	if mw.err != nil || c == nil {
		return
	}
	chunk := make([]byte, ChunkSize)
	for {
		n, err := c.Read(chunk)
		if n > 0 {
			if _, werr := w.Write(chunk[:n]); werr != nil {
				if mw.err == nil {
					mw.err = werr
				}
				return
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			mw.err = fmt.Errorf("failed to read from cursor: %w", err)
			return
		}
	}
}
