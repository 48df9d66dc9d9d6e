// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"io"
)

// MaxBodyLength is the maximum line length of base64 encoded content as defined in RFC 2045.
const MaxBodyLength = 76

// ErrNoOutWriter is returned when no io.Writer is set for Base64LineBreaker.
var ErrNoOutWriter = errors.New("no io.Writer set for Base64LineBreaker")

// Base64LineBreaker is used to handle base64 encoding with the insertion of CRLF line breaks after
// MaxBodyLength characters.
//
// Line breaks are written between lines, the last line is left unterminated. Inside a multipart body
// the CRLF in front of the next boundary delimiter ends it.
//
// It satisfies the io.WriteCloser interface.
type Base64LineBreaker struct {
	line    [MaxBodyLength]byte
	used    int
	out     io.Writer
	started bool
}

// Write buffers data and writes every completed line.
func (l *Base64LineBreaker) Write(data []byte) (int, error) {
	if l.out == nil {
		return 0, ErrNoOutWriter
	}
	written := 0
	for len(data) > 0 {
		n := copy(l.line[l.used:], data)
		l.used += n
		data = data[n:]
		written += n
		if l.used < MaxBodyLength {
			break
		}
		if err := l.flush(); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Close writes the remaining buffered characters.
func (l *Base64LineBreaker) Close() error {
	if l.used == 0 {
		return nil
	}
	if l.out == nil {
		return ErrNoOutWriter
	}
	return l.flush()
}

// flush writes the line break that ends the previous line, then the buffered line.
func (l *Base64LineBreaker) flush() error {
	if l.started {
		if _, err := l.out.Write(crlf); err != nil {
			return err
		}
	}
	l.started = true
	if _, err := l.out.Write(l.line[:l.used]); err != nil {
		return err
	}
	l.used = 0
	return nil
}
