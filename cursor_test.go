// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"io"
	"testing"
)

// readChunked reads the Cursor until io.EOF with reads of at most size bytes.
func readChunked(t *testing.T, c *Cursor, size int) string {
	t.Helper()
	var out []byte
	p := make([]byte, size)
	for i := 0; ; i++ {
		if i > 1<<20 {
			t.Fatal("cursor does not make progress")
		}
		n, err := c.Read(p)
		if n > size {
			t.Fatalf("read returned %d bytes for a %d byte buffer", n, size)
		}
		out = append(out, p[:n]...)
		if errors.Is(err, io.EOF) {
			if n != 0 {
				t.Fatalf("expected io.EOF with 0 bytes, got %d", n)
			}
			return string(out)
		}
		if err != nil {
			t.Fatalf("unexpected read error: %s", err)
		}
		if n == 0 {
			t.Fatal("read returned 0 bytes without io.EOF")
		}
	}
}

var cursorTests = []struct {
	name      string
	header    string
	data      string
	normalize bool
	want      string
}{
	{"header and body", "Subject: Hi\r\n", "line1\nline2", true, "Subject: Hi\r\n\r\nline1\r\nline2\r\n"},
	{"existing CRLF kept", "", "a\r\nb\r\n", true, "a\r\nb\r\n"},
	{"mixed line endings", "", "a\r\nb\nc", true, "a\r\nb\r\nc\r\n"},
	{"lone CR kept", "", "a\rb", true, "a\rb\r\n"},
	{"leading LF", "", "\nx", true, "\r\nx\r\n"},
	{"only LFs", "", "\n\n", true, "\r\n\r\n"},
	{"trailing CR gets terminator", "", "a\r", true, "a\r\r\n"},
	{"empty data", "", "", true, ""},
	{"header only", "From: a@x.com\r\n", "", true, "From: a@x.com\r\n\r\n"},
	{"raw data", "", "a\nb", false, "a\nb"},
	{"raw with header", "X", "y", false, "X\r\ny"},
	{"raw binary", "", "\x00\xff\n\r", false, "\x00\xff\n\r"},
}

func TestCursor_Read(t *testing.T) {
	for _, tt := range cursorTests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{1, 2, 3, 5, 7, 64, ChunkSize} {
				c := NewCursor([]byte(tt.header), []byte(tt.data), tt.normalize)
				if got := readChunked(t, c, size); got != tt.want {
					t.Errorf("chunk size %d: expected %q, got %q", size, tt.want, got)
				}
			}
		})
	}
}

func TestCursor_ReadAfterEOF(t *testing.T) {
	c := NewCursor([]byte("H: v\r\n"), []byte("body"), true)
	_ = readChunked(t, c, 16)
	p := make([]byte, 16)
	for i := 0; i < 3; i++ {
		n, err := c.Read(p)
		if n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("expected (0, io.EOF) after end, got (%d, %v)", n, err)
		}
	}
}

func TestCursor_ReadEmptyBuffer(t *testing.T) {
	c := NewCursor(nil, []byte("x"), false)
	n, err := c.Read(nil)
	if n != 0 || err != nil {
		t.Errorf("expected (0, nil) for empty buffer, got (%d, %v)", n, err)
	}
	if got := readChunked(t, c, 4); got != "x" {
		t.Errorf("expected empty read not to consume data, got %q", got)
	}
}

func TestCursor_NormalizationIsIdempotent(t *testing.T) {
	inputs := []string{"a\nb", "a\r\nb\n", "\n\r\n\n", "x\ry\n", "plain"}
	for _, in := range inputs {
		once := readChunked(t, NewCursor(nil, []byte(in), true), 3)
		twice := readChunked(t, NewCursor(nil, []byte(once), true), 1)
		if once != twice {
			t.Errorf("normalizing %q twice changed the output: %q vs. %q", in, once, twice)
		}
	}
}

func TestCursor_Seek(t *testing.T) {
	newRaw := func() *Cursor { return NewCursor([]byte("AB"), []byte("cd"), false) }

	t.Run("replay from start", func(t *testing.T) {
		c := newRaw()
		first := readChunked(t, c, 3)
		if _, err := c.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("failed to seek: %s", err)
		}
		if second := readChunked(t, c, 1); second != first {
			t.Errorf("replay mismatch: %q vs. %q", first, second)
		}
	})
	tests := []struct {
		name   string
		offset int64
		whence int
		pos    int64
		want   string
	}{
		{"into header", 1, io.SeekStart, 1, "B\r\ncd"},
		{"end of header", 2, io.SeekStart, 2, "\r\ncd"},
		{"into separator", 3, io.SeekStart, 3, "\ncd"},
		{"into data", 4, io.SeekStart, 4, "cd"},
		{"from end", -1, io.SeekEnd, 5, "d"},
		{"beyond end", 100, io.SeekStart, 100, ""},
		{"current", 2, io.SeekCurrent, 2, "\r\ncd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRaw()
			pos, err := c.Seek(tt.offset, tt.whence)
			if err != nil {
				t.Fatalf("failed to seek: %s", err)
			}
			if pos != tt.pos {
				t.Errorf("expected position %d, got %d", tt.pos, pos)
			}
			if got := readChunked(t, c, 2); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
	t.Run("current after partial read", func(t *testing.T) {
		c := newRaw()
		p := make([]byte, 3)
		if _, err := c.Read(p); err != nil {
			t.Fatalf("failed to read: %s", err)
		}
		if _, err := c.Read(p[:1]); err != nil {
			t.Fatalf("failed to read: %s", err)
		}
		pos, err := c.Seek(0, io.SeekCurrent)
		if err != nil {
			t.Fatalf("failed to seek: %s", err)
		}
		if pos != 3 {
			t.Errorf("expected position 3, got %d", pos)
		}
	})
	t.Run("errors", func(t *testing.T) {
		c := newRaw()
		if _, err := c.Seek(-1, io.SeekStart); !errors.Is(err, ErrNegativeOffset) {
			t.Errorf("expected ErrNegativeOffset, got: %v", err)
		}
		if _, err := c.Seek(0, 42); !errors.Is(err, ErrInvalidWhence) {
			t.Errorf("expected ErrInvalidWhence, got: %v", err)
		}
		if got := readChunked(t, c, 8); got != "AB\r\ncd" {
			t.Errorf("failed seek moved the cursor: %q", got)
		}
		n := NewCursor(nil, []byte("a\nb"), true)
		if _, err := n.Seek(0, io.SeekStart); !errors.Is(err, ErrSeekUnsupported) {
			t.Errorf("expected ErrSeekUnsupported, got: %v", err)
		}
	})
}

func TestCursor_Size(t *testing.T) {
	if size := NewCursor([]byte("AB"), []byte("cd"), false).Size(); size != 6 {
		t.Errorf("expected size 6, got %d", size)
	}
	if size := NewCursor(nil, []byte("cd"), false).Size(); size != 2 {
		t.Errorf("expected size 2, got %d", size)
	}
	c := NewCursor(nil, []byte("cd"), true)
	if c.Size() != -1 || c.Seekable() || !c.Normalizing() {
		t.Errorf("unexpected state of normalizing cursor")
	}
}

func TestCursor_Release(t *testing.T) {
	c := NewCursor([]byte("AB"), []byte("cd"), false)
	c.Release()
	n, err := c.Read(make([]byte, 4))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after release, got (%d, %v)", n, err)
	}
}
