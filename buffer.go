// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
)

const (
	// BufferBlockSize is the allocation granularity of a Buffer. The capacity of a Buffer is always a
	// multiple of this value.
	BufferBlockSize = 1024

	// bufferMargin is the number of bytes that are kept free behind the used region. It holds the
	// NUL terminator.
	bufferMargin = 1

	// DefaultMaxHeaderSize is the default upper limit for the header block of a Composition.
	DefaultMaxHeaderSize = 1 << 20
)

// ErrOutOfMemory is returned if a Buffer would have to grow beyond its configured maximum size.
var ErrOutOfMemory = errors.New("out of memory")

// Buffer is an append-only byte buffer that holds the formatted header lines of a message.
//
// The buffer grows in blocks of BufferBlockSize bytes and always keeps a NUL terminator behind the used
// region. The terminator is not part of the slice returned by Bytes.
type Buffer struct {
	data []byte
	used int
	max  int
}

// NewBuffer returns an empty Buffer. A maxSize smaller than or equal to zero disables the size limit.
func NewBuffer(maxSize int) *Buffer {
	return &Buffer{max: maxSize}
}

// Append copies p to the end of the used region of the Buffer, growing it if necessary.
//
// If the grown Buffer would exceed the configured maximum size, Append returns ErrOutOfMemory and the
// Buffer is left unchanged.
func (b *Buffer) Append(p []byte) error {
	need := b.used + len(p) + bufferMargin
	if need < b.used {
		return fmt.Errorf("%w: buffer size overflow", ErrOutOfMemory)
	}
	if need > len(b.data) {
		size := ((need + BufferBlockSize - 1) / BufferBlockSize) * BufferBlockSize
		if b.max > 0 && size > b.max {
			return fmt.Errorf("%w: header buffer would grow to %d bytes (limit: %d)", ErrOutOfMemory,
				size, b.max)
		}
		grown := make([]byte, size)
		copy(grown, b.data[:b.used])
		b.data = grown
	}
	copy(b.data[b.used:], p)
	b.used += len(p)
	b.data[b.used] = 0
	return nil
}

// AppendString appends the given string to the Buffer.
func (b *Buffer) AppendString(s string) error {
	return b.Append([]byte(s))
}

// AppendLine appends the given string followed by a CRLF line ending.
func (b *Buffer) AppendLine(s string) error {
	line := make([]byte, 0, len(s)+2)
	line = append(line, s...)
	line = append(line, '\r', '\n')
	return b.Append(line)
}

// Bytes returns the used region of the Buffer. The returned slice aliases the Buffer storage until the
// next growth.
func (b *Buffer) Bytes() []byte {
	if b.data == nil {
		return nil
	}
	return b.data[:b.used:b.used]
}

// Len returns the number of used bytes.
func (b *Buffer) Len() int {
	return b.used
}

// Cap returns the number of allocated bytes, including the margin for the terminator.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Release drops the storage of the Buffer. The Buffer can be reused afterwards.
func (b *Buffer) Release() {
	b.data = nil
	b.used = 0
}
