// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownListStyle is returned if a list style name cannot be mapped to a ListStyle.
	ErrUnknownListStyle = errors.New("unknown header list style")

	// ErrHeaderInjection is returned if a header value contains a CR or LF character.
	ErrHeaderInjection = errors.New("header value must not contain CR or LF")
)

// HeaderWriter formats RFC 822 header lines into a Buffer.
//
// The zero value is not usable, use NewHeaderWriter. An empty string is treated as NULL: the field is
// omitted entirely. The first error is sticky, all following calls are no-ops and Err returns it.
type HeaderWriter struct {
	buf   *Buffer
	style ListStyle
	err   error
}

// NewHeaderWriter returns a HeaderWriter that appends to the given Buffer and renders list fields in
// the given ListStyle.
func NewHeaderWriter(buf *Buffer, style ListStyle) *HeaderWriter {
	return &HeaderWriter{buf: buf, style: style}
}

// AddField writes "<name>: <value>\r\n" if value is not NULL.
func (hw *HeaderWriter) AddField(h Header, value string) {
	if value == "" {
		return
	}
	hw.writeLine(h, value)
}

// AddListField writes a comma-delimited list field.
//
// The list is split at every comma, there is no escaping: an address that contains a literal comma
// cannot be represented. Empty entries are skipped. Depending on the ListStyle the entries are written
// as one line per entry or as a single line joined by commas.
func (hw *HeaderWriter) AddListField(h Header, list string) {
	entries := SplitList(list)
	if len(entries) == 0 {
		return
	}
	if hw.style == ListStyleJoined {
		hw.writeLine(h, strings.Join(entries, ","))
		return
	}
	for _, entry := range entries {
		hw.writeLine(h, entry)
	}
}

// AddPriority writes the X-Priority header if p is not nil.
func (hw *HeaderWriter) AddPriority(p *int) {
	if p == nil {
		return
	}
	hw.writeLine(HeaderXPriority, strconv.Itoa(*p))
}

// AddContentType writes the Content-Type header. If declared is NULL, the text/plain default with the
// given charset is used.
func (hw *HeaderWriter) AddContentType(declared, charset string) {
	hw.writeLine(HeaderContentType, ResolveContentType(declared, charset))
}

// AddTransferEncoding writes the Content-Transfer-Encoding header.
func (hw *HeaderWriter) AddTransferEncoding(e Encoding) {
	hw.writeLine(HeaderContentTransferEnc, e.String())
}

// Err returns the first error that occurred while writing header lines.
func (hw *HeaderWriter) Err() error {
	return hw.err
}

// writeLine validates the value and appends the complete header line to the Buffer.
func (hw *HeaderWriter) writeLine(h Header, value string) {
	if hw.err != nil {
		return
	}
	if strings.ContainsAny(value, "\r\n") {
		hw.err = fmt.Errorf("%w: %w in field %q", ErrInvalidArgument, ErrHeaderInjection, h)
		return
	}
	if err := hw.buf.AppendLine(string(h) + ": " + value); err != nil {
		hw.err = fmt.Errorf("failed to write header field %q: %w", h, err)
	}
}

// SplitList splits a comma-delimited list into its non-empty entries. Surrounding whitespace of an
// entry is removed.
func SplitList(list string) []string {
	var entries []string
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// ResolveContentType returns declared, or the text/plain default with the given charset if declared is
// NULL.
func ResolveContentType(declared, charset string) string {
	if declared != "" {
		return declared
	}
	return fmt.Sprintf(`%s; charset="%s"`, TypeTextPlain, charset)
}
