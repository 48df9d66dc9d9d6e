// SPDX-FileCopyrightText: Copyright 2010 The Go Authors. All rights reserved.
// SPDX-FileCopyrightText: Copyright (c) 2022-2026 The go-utlmail Authors
//
// Original net/smtp code from the Go stdlib by the Go Authors.
// Use of this source code is governed by a BSD-style
// LICENSE file that can be found in this directory.
//
// go-utlmail specific modifications by the go-utlmail Authors.
// Licensed under the MIT License.
//
// SPDX-License-Identifier: BSD-3-Clause AND MIT

// Package smtp implements the client side of the Simple Mail Transfer Protocol as defined in RFC 5321
// with the following extensions:
//
//	8BITMIME  RFC 1652
//	AUTH      RFC 4954
//	STARTTLS  RFC 3207
//	SMTPUTF8  RFC 6531
package smtp

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/go-utlmail/log"
)

var (
	// ErrNonTLSConnection is returned when the TLS state of a non-TLS connection is requested.
	ErrNonTLSConnection = errors.New("connection is not using TLS")

	// ErrNoConnection is returned when an operation requires an established connection.
	ErrNoConnection = errors.New("connection is not established")

	// ErrInvalidLine is returned if a command argument contains CR or LF.
	ErrInvalidLine = errors.New("smtp: a line must not contain CR or LF")

	// ErrHelloAfterCommand is returned if Hello is called after another command.
	ErrHelloAfterCommand = errors.New("smtp: Hello called after other methods")
)

// A Client represents a client connection to an SMTP server.
type Client struct {
	// Text is the textproto.Conn used by the Client.
	Text *textproto.Conn

	// auth lists the advertised auth mechanisms
	auth []string

	// authIsActive redacts the debug log during an AUTH exchange
	authIsActive bool

	// conn is kept to upgrade the connection with STARTTLS
	conn net.Conn

	// debug enables the logging of the SMTP dialog
	debug bool

	// didHello indicates whether we've said HELO/EHLO
	didHello bool

	// ext holds the advertised extensions and their parameters
	ext map[string]string

	// helloError is the error of the greeting
	helloError error

	// isConnected indicates if the Client has an active connection
	isConnected bool

	// localName is the name to use in HELO/EHLO
	localName string

	// logger is used for the debug log
	logger log.Logger

	// mutex protects the connection state
	mutex sync.RWMutex

	// serverName is the name of the server used for authentication
	serverName string

	// tls indicates whether the connection is encrypted
	tls bool
}

// NewClient returns a new Client using an existing connection and host as a server name to be used
// when authenticating. It waits for the 220 greeting of the server.
func NewClient(conn net.Conn, host string) (*Client, error) {
	text := textproto.NewConn(conn)
	if _, _, err := text.ReadResponse(220); err != nil {
		if cerr := text.Close(); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, err
	}
	c := &Client{Text: text, conn: conn, serverName: host, localName: "localhost", isConnected: true}
	_, c.tls = conn.(*tls.Conn)
	return c, nil
}

// Close closes the connection without sending QUIT.
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.isConnected = false
	return c.Text.Close()
}

// Hello sends a HELO or EHLO to the server as the given host name. It must be called before any other
// command, otherwise the Client introduces itself as "localhost".
func (c *Client) Hello(localName string) error {
	if err := validateLine(localName); err != nil {
		return err
	}
	if c.didHello {
		return ErrHelloAfterCommand
	}
	c.mutex.Lock()
	c.localName = localName
	c.mutex.Unlock()
	return c.hello()
}

// hello greets the server once, preferring EHLO over HELO.
func (c *Client) hello() error {
	if c.didHello {
		return c.helloError
	}
	c.didHello = true
	if err := c.ehlo(); err != nil {
		c.helloError = c.helo()
	}
	return c.helloError
}

// ehlo sends EHLO and records the advertised extensions.
func (c *Client) ehlo() error {
	_, msg, err := c.cmd(250, "EHLO %s", c.localName)
	if err != nil {
		return err
	}
	ext := make(map[string]string)
	lines := strings.Split(msg, "\n")
	for _, line := range lines[1:] {
		keyword, param, _ := strings.Cut(line, " ")
		ext[strings.ToUpper(keyword)] = param
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if mechs, ok := ext["AUTH"]; ok {
		c.auth = strings.Fields(mechs)
	}
	c.ext = ext
	return nil
}

// helo sends HELO to servers that do not support EHLO.
func (c *Client) helo() error {
	c.mutex.Lock()
	c.ext = nil
	c.mutex.Unlock()
	_, _, err := c.cmd(250, "HELO %s", c.localName)
	return err
}

// cmd sends a command and reads the response of the server.
func (c *Client) cmd(expectCode int, format string, args ...interface{}) (int, string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.authIsActive {
		c.debugLog(log.DirClientToServer, "%s", "<SMTP auth data redacted>")
	} else {
		c.debugLog(log.DirClientToServer, format, args...)
	}

	id, err := c.Text.Cmd(format, args...)
	if err != nil {
		return 0, "", err
	}
	c.Text.StartResponse(id)
	defer c.Text.EndResponse(id)
	code, msg, err := c.Text.ReadResponse(expectCode)

	if c.authIsActive && code >= 300 && code < 400 {
		c.debugLog(log.DirServerToClient, "%d %s", code, "<SMTP auth data redacted>")
	} else {
		c.debugLog(log.DirServerToClient, "%d %s", code, msg)
	}
	return code, msg, err
}

// StartTLS sends the STARTTLS command and encrypts all further communication. Only servers that
// advertise the STARTTLS extension support this function.
func (c *Client) StartTLS(config *tls.Config) error {
	if err := c.hello(); err != nil {
		return err
	}
	if _, _, err := c.cmd(220, "STARTTLS"); err != nil {
		return err
	}

	c.mutex.Lock()
	c.conn = tls.Client(c.conn, config)
	c.Text = textproto.NewConn(c.conn)
	c.tls = true
	c.mutex.Unlock()

	return c.ehlo()
}

// TLSConnectionState returns the state of the TLS connection.
func (c *Client) TLSConnectionState() (*tls.ConnectionState, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isConnected {
		return nil, ErrNoConnection
	}
	conn, ok := c.conn.(*tls.Conn)
	if !c.tls || !ok {
		return nil, ErrNonTLSConnection
	}
	state := conn.ConnectionState()
	return &state, nil
}

// Auth authenticates the client using the provided authentication mechanism. A failed authentication
// closes the connection. Only servers that advertise the AUTH extension support this function.
func (c *Client) Auth(a Auth) error {
	if err := c.hello(); err != nil {
		return err
	}

	c.mutex.Lock()
	c.authIsActive = true
	c.mutex.Unlock()
	defer func() {
		c.mutex.Lock()
		c.authIsActive = false
		c.mutex.Unlock()
	}()

	encoding := base64.StdEncoding
	mech, resp, err := a.Start(&ServerInfo{Name: c.serverName, TLS: c.tls, Auth: c.auth})
	if err != nil {
		if qerr := c.Quit(); qerr != nil {
			return errors.Join(err, qerr)
		}
		return err
	}
	code, msg64, err := c.cmd(0, "%s", strings.TrimSpace("AUTH "+mech+" "+encoding.EncodeToString(resp)))
	for err == nil {
		var msg []byte
		switch code {
		case 334:
			msg, err = encoding.DecodeString(msg64)
		case 235:
			// the final reply is not a challenge and not encoded
			msg = []byte(msg64)
		default:
			err = &textproto.Error{Code: code, Msg: msg64}
		}
		if err == nil {
			resp, err = a.Next(msg, code == 334)
		}
		if err != nil {
			if mech != "XOAUTH2" {
				_, _, _ = c.cmd(501, "*")
			}
			_ = c.Quit()
			break
		}
		if resp == nil {
			break
		}
		code, msg64, err = c.cmd(0, "%s", encoding.EncodeToString(resp))
	}
	return err
}

// Mail issues a MAIL command to the server using the provided email address. BODY=8BITMIME and
// SMTPUTF8 are added if the server supports these extensions.
func (c *Client) Mail(from string) error {
	if err := validateLine(from); err != nil {
		return err
	}
	if err := c.hello(); err != nil {
		return err
	}
	cmdStr := "MAIL FROM:<%s>"

	c.mutex.RLock()
	if _, ok := c.ext["8BITMIME"]; ok {
		cmdStr += " BODY=8BITMIME"
	}
	if _, ok := c.ext["SMTPUTF8"]; ok {
		cmdStr += " SMTPUTF8"
	}
	c.mutex.RUnlock()

	_, _, err := c.cmd(250, cmdStr, from)
	return err
}

// Rcpt issues a RCPT command to the server using the provided email address. It must be preceded by
// a call to Mail.
func (c *Client) Rcpt(to string) error {
	if err := validateLine(to); err != nil {
		return err
	}
	_, _, err := c.cmd(25, "RCPT TO:<%s>", to)
	return err
}

// DataCloser is the io.WriteCloser returned by Client.Data.
type DataCloser struct {
	c        *Client
	w        io.WriteCloser
	done     bool
	response string
}

// Write writes dot-encoded message data to the server.
func (d *DataCloser) Write(p []byte) (int, error) {
	d.c.mutex.Lock()
	defer d.c.mutex.Unlock()
	return d.w.Write(p)
}

// Close terminates the message data and reads the response of the server.
func (d *DataCloser) Close() error {
	d.c.mutex.Lock()
	defer d.c.mutex.Unlock()
	_ = d.w.Close()
	code, resp, err := d.c.Text.ReadResponse(250)
	d.c.debugLog(log.DirServerToClient, "%d %s", code, resp)
	d.response = resp
	d.done = true
	return err
}

// ServerResponse returns the response of the server after the DataCloser has been closed.
func (d *DataCloser) ServerResponse() string {
	if !d.done {
		return ""
	}
	return d.response
}

// Data issues a DATA command to the server and returns a writer for the message. The caller must close
// the writer before calling any more methods on c.
func (c *Client) Data() (io.WriteCloser, error) {
	if _, _, err := c.cmd(354, "DATA"); err != nil {
		return nil, err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return &DataCloser{c: c, w: c.Text.DotWriter()}, nil
}

// Extension reports whether an extension is supported by the server and returns its parameters.
func (c *Client) Extension(ext string) (bool, string) {
	if err := c.hello(); err != nil {
		return false, ""
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	param, ok := c.ext[strings.ToUpper(ext)]
	return ok, param
}

// Reset sends the RSET command to the server, aborting the current mail transaction.
func (c *Client) Reset() error {
	if err := c.hello(); err != nil {
		return err
	}
	_, _, err := c.cmd(250, "RSET")
	return err
}

// Noop sends the NOOP command to the server to check that the connection is okay.
func (c *Client) Noop() error {
	if err := c.hello(); err != nil {
		return err
	}
	_, _, err := c.cmd(250, "NOOP")
	return err
}

// Quit sends the QUIT command and closes the connection to the server.
func (c *Client) Quit() error {
	_ = c.hello()
	if _, _, err := c.cmd(221, "QUIT"); err != nil {
		return err
	}
	return c.Close()
}

// SetDebugLog enables the debug logging of the SMTP dialog
func (c *Client) SetDebugLog(v bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.debug = v
	if v && c.logger == nil {
		c.logger = log.New(os.Stderr, log.LevelDebug)
	}
}

// SetLogger overrides the default log.Stdlog of the debug logging
func (c *Client) SetLogger(l log.Logger) {
	if l == nil {
		return
	}
	c.mutex.Lock()
	c.logger = l
	c.mutex.Unlock()
}

// HasConnection reports whether the client has an active connection.
func (c *Client) HasConnection() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.isConnected
}

// UpdateDeadline sets a new deadline on the connection.
func (c *Client) UpdateDeadline(timeout time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.conn == nil {
		return ErrNoConnection
	}
	if err := c.conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("smtp: failed to update deadline: %w", err)
	}
	return nil
}

// debugLog writes to the logger if debug logging is enabled. The caller must hold the mutex.
func (c *Client) debugLog(d log.Direction, f string, a ...interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debugf(log.Log{Direction: d, Format: f, Messages: a})
	}
}

// validateLine checks that a command argument has no CR or LF as required by RFC 5321.
func validateLine(line string) error {
	if strings.ContainsAny(line, "\n\r") {
		return ErrInvalidLine
	}
	return nil
}
