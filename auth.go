// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"fmt"
	"strings"
)

// SMTPAuthType represents a string to any SMTP AUTH type
type SMTPAuthType string

// Supported SMTP AUTH types
const (
	// SMTPAuthLogin is the "LOGIN" SASL authentication mechanism
	SMTPAuthLogin SMTPAuthType = "LOGIN"

	// SMTPAuthNoAuth disables SMTP authentication
	SMTPAuthNoAuth SMTPAuthType = ""

	// SMTPAuthNTLM is the NTLMv2 authentication mechanism of Microsoft mail servers
	SMTPAuthNTLM SMTPAuthType = "NTLM"

	// SMTPAuthPlain is the "PLAIN" authentication mechanism as described in RFC 4616
	SMTPAuthPlain SMTPAuthType = "PLAIN"

	// SMTPAuthSCRAMSHA1 is the "SCRAM-SHA-1" mechanism as described in RFC 5802
	SMTPAuthSCRAMSHA1 SMTPAuthType = "SCRAM-SHA-1"

	// SMTPAuthSCRAMSHA256 is the "SCRAM-SHA-256" mechanism as described in RFC 7677
	SMTPAuthSCRAMSHA256 SMTPAuthType = "SCRAM-SHA-256"

	// SMTPAuthXOAUTH2 is the "XOAUTH2" SASL authentication mechanism.
	// https://developers.google.com/gmail/imap/xoauth2-protocol
	SMTPAuthXOAUTH2 SMTPAuthType = "XOAUTH2"
)

// ErrAuthNotSupported is returned if the server does not advertise the configured SMTP AUTH type
var ErrAuthNotSupported = errors.New("server does not support SMTP AUTH type")

// ParseSMTPAuthType returns the SMTPAuthType for the given mechanism name. An empty name disables
// authentication.
func ParseSMTPAuthType(name string) (SMTPAuthType, error) {
	t := SMTPAuthType(strings.ToUpper(strings.TrimSpace(name)))
	switch t {
	case SMTPAuthNoAuth, SMTPAuthLogin, SMTPAuthNTLM, SMTPAuthPlain, SMTPAuthSCRAMSHA1, SMTPAuthSCRAMSHA256,
		SMTPAuthXOAUTH2:
		return t, nil
	default:
		return SMTPAuthNoAuth, fmt.Errorf("unsupported SMTP AUTH type %q", name)
	}
}
