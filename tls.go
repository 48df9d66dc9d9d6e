// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"fmt"
	"strings"
)

// TLSPolicy type describes a int alias for the different TLS policies we allow
type TLSPolicy int

const (
	// TLSMandatory requires that the connection to the server is encrypted using STARTTLS. If the
	// server does not support STARTTLS the connection will be terminated with an error
	TLSMandatory TLSPolicy = iota

	// TLSOpportunistic tries to establish an encrypted connection via STARTTLS. If the server does
	// not support this, it will fall back to plaintext transmission
	TLSOpportunistic

	// NoTLS forces the transaction to be not encrypted
	NoTLS
)

// String is a standard method to convert a TLSPolicy into a printable format
func (p TLSPolicy) String() string {
	switch p {
	case TLSMandatory:
		return "TLSMandatory"
	case TLSOpportunistic:
		return "TLSOpportunistic"
	case NoTLS:
		return "NoTLS"
	default:
		return "UnknownPolicy"
	}
}

// ParseTLSPolicy returns the TLSPolicy for the given name. Names are matched case-insensitively,
// "mandatory", "opportunistic" and "none" are accepted as short forms.
func ParseTLSPolicy(name string) (TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tlsmandatory", "mandatory":
		return TLSMandatory, nil
	case "tlsopportunistic", "opportunistic":
		return TLSOpportunistic, nil
	case "notls", "none":
		return NoTLS, nil
	default:
		return TLSMandatory, fmt.Errorf("unknown TLS policy: %q", name)
	}
}
