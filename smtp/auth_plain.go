// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package smtp

// plainAuth is the type that satisfies the Auth interface for the "SMTP PLAIN" auth
type plainAuth struct {
	identity, username, password string
	host                         string
	allowUnencrypted             bool
}

// PlainAuth returns an Auth that implements the PLAIN authentication mechanism as defined in RFC 4616.
//
// The credentials are only sent if the connection is using TLS, the server is localhost or
// allowUnencrypted is set.
func PlainAuth(identity, username, password, host string, allowUnencrypted bool) Auth {
	return &plainAuth{identity, username, password, host, allowUnencrypted}
}

func (a *plainAuth) Start(server *ServerInfo) (string, []byte, error) {
	if err := checkServer(server, a.host, a.allowUnencrypted); err != nil {
		return "", nil, err
	}
	return "PLAIN", []byte(a.identity + "\x00" + a.username + "\x00" + a.password), nil
}

func (a *plainAuth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		return nil, ErrUnexpectedServerChallenge
	}
	return nil, nil
}
