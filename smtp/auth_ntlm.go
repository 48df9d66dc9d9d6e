// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"errors"

	"github.com/Azure/go-ntlmssp"
)

// ErrNTLMChallengeEmpty is returned when the NTLMv2 challenge of the server is empty.
var ErrNTLMChallengeEmpty = errors.New("NTLMv2 challenge message is empty")

// ntlmAuth satisfies the Auth interface for NTLMv2.
type ntlmAuth struct {
	domain, password, username, workstation string
	domainNeeded                            bool
}

// NTLMv2Auth returns an Auth that implements NTLMv2. A username of the form "DOMAIN\user" or
// "user@domain" selects the domain.
func NTLMv2Auth(username, password, workstation string) Auth {
	user, domain, domainNeeded := ntlmssp.GetDomain(username)
	return &ntlmAuth{
		domain:       domain,
		password:     password,
		username:     user,
		workstation:  workstation,
		domainNeeded: domainNeeded,
	}
}

func (a *ntlmAuth) Start(_ *ServerInfo) (string, []byte, error) {
	negotiate, err := ntlmssp.NewNegotiateMessage(a.domain, a.workstation)
	return "NTLM", negotiate, err
}

func (a *ntlmAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	if len(fromServer) == 0 {
		return nil, ErrNTLMChallengeEmpty
	}
	return ntlmssp.ProcessChallenge(fromServer, a.username, a.password, a.domainNeeded)
}
