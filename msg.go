// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned if a required field of a Message is NULL or empty.
var ErrInvalidArgument = errors.New("invalid argument")

// Message holds the already validated fields of a mail to be composed.
//
// The empty string is the NULL value of every string field: a field that is empty is omitted from the
// composed message.
type Message struct {
	// Sender is the envelope sender and the From header. Required.
	Sender string

	// Recipients is a comma-delimited list of To addresses. Required.
	Recipients string

	// Cc is a comma-delimited list of Cc addresses.
	Cc string

	// Bcc is a comma-delimited list of Bcc addresses.
	Bcc string

	// Subject is the Subject header.
	Subject string

	// ReplyTo is the Reply-To header.
	ReplyTo string

	// Priority is written as X-Priority header if not nil.
	Priority *int

	// Body is the message text.
	Body string

	// MimeType is the declared content type of Body. If empty, text/plain with the charset of the
	// Composer is used.
	MimeType string

	// Attachment is the optional attachment. A Message with attachment is composed as multipart/mixed.
	Attachment *Attachment
}

// Attachment is the optional attachment of a Message. Its Data is streamed directly from the caller's
// memory and is never copied.
type Attachment struct {
	// Data is the raw payload.
	Data []byte

	// MimeType is the declared content type of the attachment.
	MimeType string

	// Filename is the name the attachment is presented with.
	Filename string

	// IsText marks textual attachments. It selects the text/plain default content type and enables
	// line ending normalization.
	IsText bool
}

// Validate checks that all required fields of the Message are set.
func (m *Message) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidArgument)
	}
	if m.Sender == "" {
		return fmt.Errorf("%w: sender must not be empty", ErrInvalidArgument)
	}
	if m.Recipients == "" || len(SplitList(m.Recipients)) == 0 {
		return fmt.Errorf("%w: recipients must not be empty", ErrInvalidArgument)
	}
	if strings.ContainsAny(m.MimeType, "\r\n") {
		return fmt.Errorf("%w: %w in message content type", ErrInvalidArgument, ErrHeaderInjection)
	}
	if m.Attachment == nil {
		return nil
	}
	if m.Attachment.Data == nil {
		return fmt.Errorf("%w: attachment data must not be NULL", ErrInvalidArgument)
	}
	if strings.ContainsAny(m.Attachment.MimeType, "\r\n") {
		return fmt.Errorf("%w: %w in attachment content type", ErrInvalidArgument, ErrHeaderInjection)
	}
	return nil
}

// SetPriority sets the X-Priority of the Message.
func (m *Message) SetPriority(p int) {
	m.Priority = &p
}

// EnvelopeRecipients returns the SMTP RCPT addresses of the Message: all entries of Recipients, Cc and
// Bcc, in this order.
func (m *Message) EnvelopeRecipients() []string {
	rcpts := SplitList(m.Recipients)
	rcpts = append(rcpts, SplitList(m.Cc)...)
	return append(rcpts, SplitList(m.Bcc)...)
}
