// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/secure/precis"
)

// scramAuth is a SCRAM client as defined in RFC 5802 and satisfies the Auth interface.
type scramAuth struct {
	username, password, mechanism string
	newHash                       func() hash.Hash

	clientNonce []byte
	nonce       []byte
	clientFirst []byte
	saltedPwd   []byte
	authMessage []byte
}

// ScramSHA1Auth returns an Auth that implements SCRAM-SHA-1.
func ScramSHA1Auth(username, password string) Auth {
	return &scramAuth{username: username, password: password, mechanism: "SCRAM-SHA-1", newHash: sha1.New}
}

// ScramSHA256Auth returns an Auth that implements SCRAM-SHA-256.
func ScramSHA256Auth(username, password string) Auth {
	return &scramAuth{username: username, password: password, mechanism: "SCRAM-SHA-256", newHash: sha256.New}
}

func (a *scramAuth) Start(_ *ServerInfo) (string, []byte, error) {
	return a.mechanism, nil, nil
}

func (a *scramAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	var resp []byte
	var err error
	switch {
	case len(fromServer) == 0:
		resp, err = a.clientFirstMessage()
	case bytes.HasPrefix(fromServer, []byte("r=")):
		resp, err = a.clientFinalMessage(fromServer)
	case bytes.HasPrefix(fromServer, []byte("v=")):
		err = a.verifyServer(fromServer[2:])
		resp = []byte{}
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedServerResponse, fromServer)
	}
	if err != nil {
		a.clear()
		return nil, err
	}
	return resp, nil
}

// clear drops all state of the current exchange.
func (a *scramAuth) clear() {
	a.clientNonce, a.nonce, a.clientFirst, a.saltedPwd, a.authMessage = nil, nil, nil, nil, nil
}

// clientFirstMessage returns "n,,n=<user>,r=<nonce>".
func (a *scramAuth) clientFirstMessage() ([]byte, error) {
	a.clear()
	user, err := saslName(a.username)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 24)
	if _, err = rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate client nonce: %w", err)
	}
	a.clientNonce = []byte(base64.StdEncoding.EncodeToString(raw))
	a.clientFirst = []byte("n=" + user + ",r=" + string(a.clientNonce))
	return append([]byte("n,,"), a.clientFirst...), nil
}

// clientFinalMessage parses "r=<nonce>,s=<salt>,i=<iterations>" and returns the client proof.
func (a *scramAuth) clientFinalMessage(serverFirst []byte) ([]byte, error) {
	fields := bytes.Split(serverFirst, []byte(","))
	if len(fields) < 3 {
		return nil, errors.New("server-first-message has not enough fields")
	}
	for i, prefix := range []string{"r=", "s=", "i="} {
		if !bytes.HasPrefix(fields[i], []byte(prefix)) {
			return nil, fmt.Errorf("server-first-message field %d does not start with %q", i+1, prefix)
		}
	}
	a.nonce = fields[0][2:]
	if len(a.clientNonce) == 0 || !bytes.HasPrefix(a.nonce, a.clientNonce) {
		return nil, errors.New("server nonce does not start with client nonce")
	}
	salt, err := base64.StdEncoding.DecodeString(string(fields[1][2:]))
	if err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}
	iterations, err := strconv.Atoi(string(fields[2][2:]))
	if err != nil || iterations < 1 {
		return nil, fmt.Errorf("invalid iteration count: %q", fields[2][2:])
	}
	password, err := precis.OpaqueString.String(a.password)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password: %w", err)
	}

	a.saltedPwd = pbkdf2.Key([]byte(password), salt, iterations, a.newHash().Size(), a.newHash)
	withoutProof := "c=biws,r=" + string(a.nonce)
	a.authMessage = []byte(string(a.clientFirst) + "," + string(serverFirst) + "," + withoutProof)

	clientKey := a.mac(a.saltedPwd, []byte("Client Key"))
	h := a.newHash()
	h.Write(clientKey)
	signature := a.mac(h.Sum(nil), a.authMessage)
	for i := range clientKey {
		clientKey[i] ^= signature[i]
	}
	return []byte(withoutProof + ",p=" + base64.StdEncoding.EncodeToString(clientKey)), nil
}

// verifyServer compares the server signature of the server-final-message with the expected one.
func (a *scramAuth) verifyServer(signature []byte) error {
	if a.saltedPwd == nil {
		return errors.New("server-final-message received before server-first-message")
	}
	serverKey := a.mac(a.saltedPwd, []byte("Server Key"))
	expected := base64.StdEncoding.EncodeToString(a.mac(serverKey, a.authMessage))
	if !hmac.Equal(signature, []byte(expected)) {
		return errors.New("invalid server signature")
	}
	return nil
}

func (a *scramAuth) mac(key, msg []byte) []byte {
	m := hmac.New(a.newHash, key)
	m.Write(msg)
	return m.Sum(nil)
}

// saslName prepares a username with the OpaqueString profile of RFC 8265 and escapes ',' and '=' as
// required by RFC 5802.
func saslName(username string) (string, error) {
	prepared, err := precis.OpaqueString.String(username)
	if err != nil {
		return "", fmt.Errorf("failed to prepare username: %w", err)
	}
	return strings.NewReplacer("=", "=3D", ",", "=2C").Replace(prepared), nil
}
