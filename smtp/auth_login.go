// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"fmt"
)

const (
	// LoginXUsernameChallenge is the username challenge of the MS-XLOGIN AUTH LOGIN extension.
	LoginXUsernameChallenge = "Username:"

	// LoginXPasswordChallenge is the password challenge of the MS-XLOGIN AUTH LOGIN extension.
	LoginXPasswordChallenge = "Password:"

	// LoginXDraftUsernameChallenge is the username challenge of the expired IETF AUTH LOGIN draft.
	LoginXDraftUsernameChallenge = "User Name\x00"

	// LoginXDraftPasswordChallenge is the password challenge of the expired IETF AUTH LOGIN draft.
	LoginXDraftPasswordChallenge = "Password\x00"
)

// loginAuth is the type that satisfies the Auth interface for the "SMTP LOGIN" auth
type loginAuth struct {
	username, password string
	host               string
	allowUnencrypted   bool
}

// LoginAuth returns an Auth that implements the LOGIN authentication mechanism. The server asks for
// the username and the password in two separate challenges.
//
// The credentials are only sent if the connection is using TLS, the server is localhost or
// allowUnencrypted is set.
func LoginAuth(username, password, host string, allowUnencrypted bool) Auth {
	return &loginAuth{username, password, host, allowUnencrypted}
}

func (a *loginAuth) Start(server *ServerInfo) (string, []byte, error) {
	if err := checkServer(server, a.host, a.allowUnencrypted); err != nil {
		return "", nil, err
	}
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch string(fromServer) {
	case LoginXUsernameChallenge, LoginXDraftUsernameChallenge:
		return []byte(a.username), nil
	case LoginXPasswordChallenge, LoginXDraftPasswordChallenge:
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedServerResponse, fromServer)
	}
}
