// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// Encoding represents a MIME transfer encoding like 8bit or base64.
type Encoding string

// ContentType represents a MIME media type
type ContentType string

// NormalizePolicy decides which declared content types get their bare LF line endings converted to
// CRLF while streaming.
type NormalizePolicy int

const (
	// EncodingB64 represents the Base64 encoding as specified in RFC 2045.
	EncodingB64 Encoding = "base64"

	// NoEncoding avoids any character encoding (except of the mail headers)
	NoEncoding Encoding = "8bit"
)

const (
	// TypeAppOctet is the default content type of binary attachments.
	TypeAppOctet ContentType = "application/octet"

	// TypeMultipartMixed is the content type of a message with attachment.
	TypeMultipartMixed ContentType = "multipart/mixed"

	// TypeTextPlain is the default content type of message bodies and text attachments.
	TypeTextPlain ContentType = "text/plain"
)

const (
	// NormalizeTextPlain normalizes bodies with no declared type or a declared text/plain type.
	NormalizeTextPlain NormalizePolicy = iota

	// NormalizeText normalizes bodies of any declared text/* type.
	NormalizeText

	// NormalizeNever streams every body verbatim.
	NormalizeNever
)

// DefaultCharset is the charset used for the text/plain default content type if none is configured.
const DefaultCharset = "UTF-8"

// ErrUnknownCharset is returned if a charset name is not registered with IANA.
var ErrUnknownCharset = errors.New("unknown charset")

// String is a standard method to convert an Encoding into a printable format
func (e Encoding) String() string {
	return string(e)
}

// String is a standard method to convert a ContentType into a printable format
func (c ContentType) String() string {
	return string(c)
}

// String satisfies the fmt.Stringer interface for the NormalizePolicy type.
func (p NormalizePolicy) String() string {
	switch p {
	case NormalizeTextPlain:
		return "text-plain"
	case NormalizeText:
		return "text"
	case NormalizeNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseNormalizePolicy returns the NormalizePolicy for the given name as returned by
// NormalizePolicy.String. An empty name selects NormalizeTextPlain.
func ParseNormalizePolicy(name string) (NormalizePolicy, error) {
	switch name {
	case "", "text-plain":
		return NormalizeTextPlain, nil
	case "text":
		return NormalizeText, nil
	case "never":
		return NormalizeNever, nil
	default:
		return NormalizeTextPlain, fmt.Errorf("unknown normalize policy: %q", name)
	}
}

// Applies reports whether a body with the given declared content type is normalized under the policy.
// A NULL declared type always stands for the text/plain default.
func (p NormalizePolicy) Applies(declared string) bool {
	if p == NormalizeNever {
		return false
	}
	if declared == "" {
		return true
	}
	mediaType := declared
	if parsed, _, err := mime.ParseMediaType(declared); err == nil {
		mediaType = parsed
	} else if i := strings.IndexByte(declared, ';'); i >= 0 {
		mediaType = declared[:i]
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	switch p {
	case NormalizeText:
		return strings.HasPrefix(mediaType, "text/")
	default:
		return mediaType == TypeTextPlain.String()
	}
}

// CanonicalCharset resolves a charset name or alias to its preferred MIME name as registered with IANA.
// Names that IANA knows but that have no encoder are returned unchanged.
func CanonicalCharset(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultCharset, nil
	}
	enc, err := ianaindex.MIME.Encoding(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	if enc == nil {
		return name, nil
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		return name, nil
	}
	return canonical, nil
}
