// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"mime"
	"net/textproto"
)

// Part is a part of a multipart Composition. Its content is pulled from a Cursor.
type Part struct {
	ctype    string
	enc      Encoding
	filename string
	cursor   *Cursor
}

// GetContentType returns the content type of the Part
func (p *Part) GetContentType() string {
	return p.ctype
}

// GetEncoding returns the transfer encoding of the Part
func (p *Part) GetEncoding() Encoding {
	return p.enc
}

// GetFilename returns the filename of the Part. It is empty for message parts and unnamed attachments.
func (p *Part) GetFilename() string {
	return p.filename
}

// Cursor returns the Cursor that serves the content of the Part
func (p *Part) Cursor() *Cursor {
	return p.cursor
}

// header returns the MIME header of the Part as it is written in front of its content.
func (p *Part) header() textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set(HeaderContentType.String(), p.ctype)
	if p.enc != "" {
		h.Set(HeaderContentTransferEnc.String(), p.enc.String())
	}
	if p.filename != "" {
		h.Set(HeaderContentDisposition.String(),
			mime.FormatMediaType("attachment", map[string]string{"filename": p.filename, "name": p.filename}))
	}
	return h
}

// release drops the Cursor of the Part.
func (p *Part) release() {
	if p.cursor != nil {
		p.cursor.Release()
	}
	p.cursor = nil
}
