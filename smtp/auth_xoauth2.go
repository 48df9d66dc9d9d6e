// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package smtp

type xoauth2Auth struct {
	username, token string
}

// XOAuth2Auth returns an Auth that implements the XOAUTH2 bearer token mechanism used by Google and
// Microsoft mail servers.
func XOAuth2Auth(username, token string) Auth {
	return &xoauth2Auth{username, token}
}

func (a *xoauth2Auth) Start(_ *ServerInfo) (string, []byte, error) {
	return "XOAUTH2", []byte("user=" + a.username + "\x01auth=Bearer " + a.token + "\x01\x01"), nil
}

// Next answers an error challenge with an empty response, so the server can send its final reply.
func (a *xoauth2Auth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		return []byte{}, nil
	}
	return nil, nil
}
