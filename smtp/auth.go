// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import "errors"

var (
	// ErrUnencrypted is returned if credentials would be sent over an unencrypted connection to a host
	// other than localhost.
	ErrUnencrypted = errors.New("unencrypted connection")

	// ErrWrongHostname is returned if the server name does not match the host the Auth was created for.
	ErrWrongHostname = errors.New("wrong host name")

	// ErrUnexpectedServerChallenge is returned if the server sends a challenge the mechanism does not
	// expect.
	ErrUnexpectedServerChallenge = errors.New("unexpected server challenge")

	// ErrUnexpectedServerResponse is returned if the server response cannot be parsed by the mechanism.
	ErrUnexpectedServerResponse = errors.New("unexpected server response")
)

// Auth is implemented by an SMTP authentication mechanism.
type Auth interface {
	// Start begins an authentication with a server. It returns the name of the authentication
	// protocol and optionally data to include in the initial AUTH message sent to the server.
	// If it returns a non-nil error, the authentication is aborted.
	Start(server *ServerInfo) (proto string, toServer []byte, err error)

	// Next continues the authentication. The server has just sent the fromServer data. If more is
	// true, the server expects a response, which Next should return as toServer; otherwise Next
	// should return toServer == nil.
	Next(fromServer []byte, more bool) (toServer []byte, err error)
}

// ServerInfo records information about an SMTP server.
type ServerInfo struct {
	// Name is the name of the server
	Name string

	// TLS reports whether the connection uses TLS
	TLS bool

	// Auth lists the advertised authentication mechanisms
	Auth []string
}

// isLocalhost reports whether name refers to the local host.
func isLocalhost(name string) bool {
	return name == "localhost" || name == "127.0.0.1" || name == "::1"
}

// checkServer makes sure credentials are only sent to the expected host over a protected connection.
func checkServer(server *ServerInfo, host string, allowUnencrypted bool) error {
	if !allowUnencrypted && !server.TLS && !isLocalhost(server.Name) {
		return ErrUnencrypted
	}
	if server.Name != host {
		return ErrWrongHostname
	}
	return nil
}
