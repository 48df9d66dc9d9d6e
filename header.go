// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

// Header is a type wrapper for a string and represents email header fields in a Composition.
type Header string

// ListStyle selects how comma-delimited list fields like To or Cc are rendered in the header block.
type ListStyle int

const (
	// HeaderBcc is the "Blind Carbon Copy" header field.
	HeaderBcc Header = "Bcc"

	// HeaderCc is the "Carbon Copy" header field.
	HeaderCc Header = "Cc"

	// HeaderContentDisposition is the "Content-Disposition" header.
	HeaderContentDisposition Header = "Content-Disposition"

	// HeaderContentTransferEnc is the "Content-Transfer-Encoding" header.
	HeaderContentTransferEnc Header = "Content-Transfer-Encoding"

	// HeaderContentType is the "Content-Type" header.
	HeaderContentType Header = "Content-Type"

	// HeaderFrom is the "From" header field.
	HeaderFrom Header = "From"

	// HeaderMIMEVersion represents the "MIME-Version" field as per RFC 2045.
	// https://datatracker.ietf.org/doc/html/rfc2045#section-4
	HeaderMIMEVersion Header = "MIME-Version"

	// HeaderReplyTo is the "Reply-To" header field.
	HeaderReplyTo Header = "Reply-To"

	// HeaderSubject is the "Subject" header field.
	HeaderSubject Header = "Subject"

	// HeaderTo is the "Recipient" header field.
	HeaderTo Header = "To"

	// HeaderXPriority is the "X-Priority" header field.
	HeaderXPriority Header = "X-Priority"
)

const (
	// ListStylePerLine writes one header line per list entry ("To: a\r\nTo: b\r\n").
	ListStylePerLine ListStyle = iota

	// ListStyleJoined writes all list entries into a single header line ("To: a,b\r\n").
	ListStyleJoined
)

// String satisfies the fmt.Stringer interface for the Header type and returns the string
// representation of the Header.
func (h Header) String() string {
	return string(h)
}

// String satisfies the fmt.Stringer interface for the ListStyle type.
func (s ListStyle) String() string {
	switch s {
	case ListStylePerLine:
		return "per-line"
	case ListStyleJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// ParseListStyle returns the ListStyle for the given name as returned by ListStyle.String. An empty name
// selects ListStylePerLine.
func ParseListStyle(name string) (ListStyle, error) {
	switch name {
	case "", "per-line":
		return ListStylePerLine, nil
	case "joined":
		return ListStyleJoined, nil
	default:
		return ListStylePerLine, ErrUnknownListStyle
	}
}
