// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ComposerOption returns a function that can be used for grouping Composer options
type ComposerOption func(*Composer) error

// Composer turns a Message into a Composition that a transport can pull from.
//
// A Composer holds configuration only. It is safe to share a Composer between goroutines, every call
// to Compose allocates its own Buffer, Cursors and Parts.
type Composer struct {
	// charset is the charset name used for text/plain default content types
	charset string

	// listStyle selects the rendering of list fields
	listStyle ListStyle

	// policy decides which declared content types are normalized
	policy NormalizePolicy

	// maxHeaderSize limits the size of the header Buffer
	maxHeaderSize int

	// boundary returns the multipart boundary for a new Composition
	boundary func() string
}

// ErrInvalidBoundary is returned if a custom boundary function returns an empty boundary.
var ErrInvalidBoundary = errors.New("multipart boundary must not be empty")

// NewComposer returns a new Composer with the given options applied.
func NewComposer(opts ...ComposerOption) (*Composer, error) {
	c := &Composer{
		charset:       DefaultCharset,
		listStyle:     ListStylePerLine,
		policy:        NormalizeTextPlain,
		maxHeaderSize: DefaultMaxHeaderSize,
		boundary:      randomBoundary,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return c, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return c, nil
}

// WithCharset sets the charset name that is used for the text/plain default content type. The name is
// canonicalized to its preferred MIME name.
func WithCharset(name string) ComposerOption {
	return func(c *Composer) error {
		cs, err := CanonicalCharset(name)
		if err != nil {
			return err
		}
		c.charset = cs
		return nil
	}
}

// WithListStyle sets the rendering of list fields like To, Cc and Bcc.
func WithListStyle(style ListStyle) ComposerOption {
	return func(c *Composer) error {
		if style != ListStylePerLine && style != ListStyleJoined {
			return fmt.Errorf("%w: %d", ErrUnknownListStyle, style)
		}
		c.listStyle = style
		return nil
	}
}

// WithNormalizePolicy sets the NormalizePolicy that decides which bodies get their line endings
// normalized.
func WithNormalizePolicy(policy NormalizePolicy) ComposerOption {
	return func(c *Composer) error {
		switch policy {
		case NormalizeTextPlain, NormalizeText, NormalizeNever:
			c.policy = policy
			return nil
		default:
			return fmt.Errorf("unknown normalize policy: %d", policy)
		}
	}
}

// WithMaxHeaderSize limits the size of the header block. A size of zero or less disables the limit.
func WithMaxHeaderSize(size int) ComposerOption {
	return func(c *Composer) error {
		c.maxHeaderSize = size
		return nil
	}
}

// WithBoundaryFunc overrides the generator for multipart boundaries.
func WithBoundaryFunc(f func() string) ComposerOption {
	return func(c *Composer) error {
		if f == nil {
			return errors.New("boundary function must not be nil")
		}
		c.boundary = f
		return nil
	}
}

// Charset returns the canonical charset name of the Composer.
func (c *Composer) Charset() string {
	return c.charset
}

// ListStyle returns the ListStyle of the Composer.
func (c *Composer) ListStyle() ListStyle {
	return c.listStyle
}

// NormalizePolicy returns the NormalizePolicy of the Composer.
func (c *Composer) NormalizePolicy() NormalizePolicy {
	return c.policy
}

// Compose validates the Message and builds a Composition from it.
//
// Without attachment the Composition consists of a single Cursor that serves the header block, the
// blank separator line and the body. With attachment, the header Cursor ends after the blank line and
// the body and the attachment follow as Parts of a multipart/mixed structure. The message Part is
// omitted if the body is empty.
//
// The attachment data is referenced, not copied. The caller must keep it unmodified until the
// Composition is closed. On error nothing is left allocated.
func (c *Composer) Compose(m *Message) (*Composition, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	buf := NewBuffer(c.maxHeaderSize)
	hw := NewHeaderWriter(buf, c.listStyle)
	hw.AddField(HeaderFrom, m.Sender)
	hw.AddListField(HeaderTo, m.Recipients)
	hw.AddListField(HeaderCc, m.Cc)
	hw.AddListField(HeaderBcc, m.Bcc)
	hw.AddField(HeaderReplyTo, m.ReplyTo)
	hw.AddPriority(m.Priority)
	hw.AddField(HeaderSubject, m.Subject)

	comp := &Composition{
		buf:   buf,
		from:  m.Sender,
		rcpts: m.EnvelopeRecipients(),
	}

	if m.Attachment == nil {
		hw.AddContentType(m.MimeType, c.charset)
		hw.AddTransferEncoding(NoEncoding)
		if err := hw.Err(); err != nil {
			_ = comp.Close()
			return nil, fmt.Errorf("failed to compose header: %w", err)
		}
		comp.header = NewCursor(buf.Bytes(), []byte(m.Body), c.policy.Applies(m.MimeType))
		return comp, nil
	}

	comp.boundary = c.boundary()
	if comp.boundary == "" {
		_ = comp.Close()
		return nil, ErrInvalidBoundary
	}
	hw.AddField(HeaderMIMEVersion, "1.0")
	hw.AddField(HeaderContentType, fmt.Sprintf(`%s; boundary="%s"`, TypeMultipartMixed, comp.boundary))
	if err := hw.Err(); err != nil {
		_ = comp.Close()
		return nil, fmt.Errorf("failed to compose header: %w", err)
	}
	comp.header = NewCursor(buf.Bytes(), nil, false)

	if m.Body != "" {
		comp.parts = append(comp.parts, &Part{
			ctype:  ResolveContentType(m.MimeType, c.charset),
			enc:    NoEncoding,
			cursor: NewCursor(nil, []byte(m.Body), c.policy.Applies(m.MimeType)),
		})
	}
	comp.parts = append(comp.parts, c.attachmentPart(m.Attachment))
	return comp, nil
}

// attachmentPart returns the base64 encoded Part for the given Attachment.
func (c *Composer) attachmentPart(a *Attachment) *Part {
	ctype := a.MimeType
	if ctype == "" {
		ctype = TypeAppOctet.String()
		if a.IsText {
			ctype = ResolveContentType("", c.charset)
		}
	}
	return &Part{
		ctype:    ctype,
		enc:      EncodingB64,
		filename: a.Filename,
		cursor:   NewCursor(nil, a.Data, a.IsText && c.policy.Applies(a.MimeType)),
	}
}

// randomBoundary returns a new random multipart boundary.
func randomBoundary() string {
	return uuid.NewString()
}
