// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-utlmail/log"
	"github.com/wneessen/go-utlmail/smtp"
)

// Defaults
const (
	// DefaultPort is the default connection port to the SMTP server
	DefaultPort = 25

	// DefaultPortSSL is the default connection port for SSL/TLS to the SMTP server
	DefaultPortSSL = 465

	// DefaultPortTLS is the default connection port for STARTTLS to the SMTP server
	DefaultPortTLS = 587

	// DefaultTimeout is the default connection timeout
	DefaultTimeout = time.Second * 15

	// DefaultTLSPolicy is the default STARTTLS policy
	DefaultTLSPolicy = TLSMandatory

	// DefaultTLSMinVersion is the minimum TLS version required for the connection
	DefaultTLSMinVersion = tls.VersionTLS12
)

// DialContextFunc is a type to define custom DialContext function.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client is the SMTP Transport. It delivers a Composition by pulling it into the DATA command of an
// SMTP session.
type Client struct {
	// connection is the net.Conn that the smtp.Client is based on
	connection net.Conn

	// connTimeout is the timeout for the SMTP server connection
	connTimeout time.Duration

	// dialContextFunc is a custom DialContext function to dial target SMTP server
	dialContextFunc DialContextFunc

	// debugLog enables the debug logging of the SMTP dialog
	debugLog bool

	// helo is the HELO/EHLO hostname
	helo string

	// host is the hostname of the SMTP server
	host string

	// isEncrypted indicates if the connection is encrypted
	isEncrypted bool

	// logger is used for the debug log of the SMTP dialog
	logger log.Logger

	// noNoop skips the NOOP connection check
	noNoop bool

	// pass is the SMTP AUTH password
	pass string

	// port of the SMTP server
	port int

	// smtpAuth is a custom smtp.Auth
	smtpAuth smtp.Auth

	// smtpAuthType is the configured SMTP AUTH mechanism
	smtpAuthType SMTPAuthType

	// smtpClient is the smtp.Client of an established connection
	smtpClient *smtp.Client

	// useSSL enables implicit TLS
	useSSL bool

	// tlspolicy is the STARTTLS policy
	tlspolicy TLSPolicy

	// tlsconfig is the tls.Config for SSL and STARTTLS
	tlsconfig *tls.Config

	// user is the SMTP AUTH username
	user string
}

// Option returns a function that can be used for grouping Client options
type Option func(*Client) error

var (
	// ErrInvalidPort should be used if a port is specified that is not valid
	ErrInvalidPort = errors.New("invalid port number")

	// ErrInvalidTimeout should be used if a timeout is set that is zero or negative
	ErrInvalidTimeout = errors.New("timeout cannot be zero or negative")

	// ErrInvalidHELO should be used if an empty HELO sting is provided
	ErrInvalidHELO = errors.New("invalid HELO/EHLO value - must not be empty")

	// ErrInvalidTLSConfig should be used if an empty tls.Config is provided
	ErrInvalidTLSConfig = errors.New("invalid TLS config")

	// ErrNoHostname should be used if a Client has no hostname set
	ErrNoHostname = errors.New("hostname for client cannot be empty")

	// ErrInvalidURL is returned if the server URL cannot be used by NewClientFromURL
	ErrInvalidURL = errors.New("invalid SMTP server URL")

	// ErrDeadlineExtendFailed should be used if the extension of the connection deadline fails
	ErrDeadlineExtendFailed = errors.New("connection deadline extension failed")

	// ErrNoActiveConnection should be used when a method is used that requires a server connection
	// but is not yet connected
	ErrNoActiveConnection = errors.New("not connected to SMTP server")
)

// NewClient returns a new SMTP Client for the given host
func NewClient(host string, opts ...Option) (*Client, error) {
	c := &Client{
		connTimeout: DefaultTimeout,
		host:        host,
		port:        DefaultPort,
		tlsconfig:   &tls.Config{ServerName: host, MinVersion: DefaultTLSMinVersion},
		tlspolicy:   DefaultTLSPolicy,
	}

	hostname, err := os.Hostname()
	if err != nil {
		return c, fmt.Errorf("failed to read local hostname: %w", err)
	}
	c.helo = hostname

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return c, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if c.host == "" {
		return c, ErrNoHostname
	}
	return c, nil
}

// NewClientFromURL returns a new SMTP Client for a server URL like "smtp://mail.example.com:587" or
// "smtps://mail.example.com". The smtps scheme selects implicit TLS on port 465 unless a port is given.
// Credentials in the URL set the SMTP AUTH username and password. The given options are applied after
// the settings derived from the URL.
func NewClientFromURL(rawURL string, opts ...Option) (*Client, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: URL is not specified", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	var urlOpts []Option
	switch strings.ToLower(u.Scheme) {
	case "smtp":
	case "smtps":
		urlOpts = append(urlOpts, WithSSL(), WithPort(DefaultPortSSL))
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		urlOpts = append(urlOpts, WithPort(port))
	}
	if u.User != nil {
		urlOpts = append(urlOpts, WithUsername(u.User.Username()))
		if pass, ok := u.User.Password(); ok {
			urlOpts = append(urlOpts, WithPassword(pass))
		}
	}
	return NewClient(u.Hostname(), append(urlOpts, opts...)...)
}

// WithPort overrides the default connection port
func WithPort(port int) Option {
	return func(c *Client) error {
		if port < 1 || port > 65535 {
			return ErrInvalidPort
		}
		c.port = port
		return nil
	}
}

// WithTimeout overrides the default connection timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		c.connTimeout = timeout
		return nil
	}
}

// WithSSL tells the client to use a SSL/TLS connection
func WithSSL() Option {
	return func(c *Client) error {
		c.useSSL = true
		return nil
	}
}

// WithDebugLog tells the client to log incoming and outgoing messages of the SMTP client to StdErr
func WithDebugLog() Option {
	return func(c *Client) error {
		c.debugLog = true
		return nil
	}
}

// WithLogger overrides the default log.Logger that is used for debug logging
func WithLogger(logger log.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithHELO tells the client to use the provided string as HELO/EHLO greeting host
func WithHELO(helo string) Option {
	return func(c *Client) error {
		if helo == "" {
			return ErrInvalidHELO
		}
		c.helo = helo
		return nil
	}
}

// WithTLSPolicy tells the client to use the provided TLSPolicy
func WithTLSPolicy(policy TLSPolicy) Option {
	return func(c *Client) error {
		c.tlspolicy = policy
		return nil
	}
}

// WithTLSConfig tells the client to use the provided *tls.Config
func WithTLSConfig(config *tls.Config) Option {
	return func(c *Client) error {
		if config == nil {
			return ErrInvalidTLSConfig
		}
		c.tlsconfig = config
		return nil
	}
}

// WithSMTPAuth tells the client to use the provided SMTPAuthType for authentication
func WithSMTPAuth(authtype SMTPAuthType) Option {
	return func(c *Client) error {
		c.smtpAuthType = authtype
		return nil
	}
}

// WithSMTPAuthCustom tells the client to use the provided smtp.Auth for SMTP authentication
func WithSMTPAuthCustom(smtpAuth smtp.Auth) Option {
	return func(c *Client) error {
		c.smtpAuth = smtpAuth
		return nil
	}
}

// WithUsername tells the client to use the provided string as username for authentication
func WithUsername(username string) Option {
	return func(c *Client) error {
		c.user = username
		return nil
	}
}

// WithPassword tells the client to use the provided string as password/secret for authentication
func WithPassword(password string) Option {
	return func(c *Client) error {
		c.pass = password
		return nil
	}
}

// WithoutNoop disables the NOOP check before a message is sent over an established connection
func WithoutNoop() Option {
	return func(c *Client) error {
		c.noNoop = true
		return nil
	}
}

// WithDialContextFunc overrides the DialContext function used to connect to the SMTP server
func WithDialContextFunc(dialCtxFunc DialContextFunc) Option {
	return func(c *Client) error {
		c.dialContextFunc = dialCtxFunc
		return nil
	}
}

// TLSPolicy returns the currently set TLSPolicy as string
func (c *Client) TLSPolicy() string {
	return c.tlspolicy.String()
}

// ServerAddr returns the currently set combination of hostname and port
func (c *Client) ServerAddr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// DialWithContext establishes a connection to the SMTP server, greets it, negotiates TLS and
// authenticates as configured.
func (c *Client) DialWithContext(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.connTimeout)
	defer cancel()

	dialContextFunc := c.dialContextFunc
	if dialContextFunc == nil {
		netDialer := net.Dialer{}
		dialContextFunc = netDialer.DialContext
		if c.useSSL {
			tlsDialer := tls.Dialer{NetDialer: &netDialer, Config: c.tlsconfig}
			c.isEncrypted = true
			dialContextFunc = tlsDialer.DialContext
		}
	}
	conn, err := dialContextFunc(dialCtx, "tcp", c.ServerAddr())
	if err != nil {
		return err
	}
	c.connection = conn

	smtpClient, err := smtp.NewClient(conn, c.host)
	if err != nil {
		_ = conn.Close()
		c.connection = nil
		return err
	}
	c.smtpClient = smtpClient
	if c.logger != nil {
		c.smtpClient.SetLogger(c.logger)
	}
	if c.debugLog {
		c.smtpClient.SetDebugLog(true)
	}

	if err = c.smtpClient.Hello(c.helo); err != nil {
		return c.abort(err)
	}
	if err = c.tls(); err != nil {
		return c.abort(err)
	}
	if err = c.auth(); err != nil {
		return c.abort(err)
	}
	return nil
}

// Send delivers the Composition. Without an established connection, Send dials the server and closes
// the connection after the delivery.
//
// The context is checked for every chunk that is written to the DATA command. If it is canceled, the
// connection is dropped without terminating the DATA command, so the server discards the partial
// message.
func (c *Client) Send(ctx context.Context, comp *Composition) (returnErr error) {
	if comp == nil {
		return fmt.Errorf("%w: composition is nil", ErrInvalidArgument)
	}
	if c.smtpClient == nil {
		if err := c.DialWithContext(ctx); err != nil {
			return fmt.Errorf("dial failed: %w", err)
		}
		defer func() {
			if c.smtpClient == nil {
				return
			}
			if err := c.Close(); err != nil && returnErr == nil {
				returnErr = fmt.Errorf("failed to close connection: %w", err)
			}
		}()
	}
	if err := c.checkConn(); err != nil {
		return newSendError(ErrConnCheck, nil, err)
	}
	return c.sendComposition(ctx, comp)
}

// sendComposition runs the mail transaction for a single Composition.
func (c *Client) sendComposition(ctx context.Context, comp *Composition) error {
	if err := c.smtpClient.Mail(comp.EnvelopeFrom()); err != nil {
		return c.resetWith(newSendError(ErrSMTPMailFrom, nil, err))
	}

	var failed []string
	var rcptErrs []error
	for _, rcpt := range comp.EnvelopeRecipients() {
		if err := c.smtpClient.Rcpt(rcpt); err != nil {
			failed = append(failed, rcpt)
			rcptErrs = append(rcptErrs, err)
		}
	}
	if len(failed) > 0 {
		return c.resetWith(newSendError(ErrSMTPRcptTo, failed, rcptErrs...))
	}

	writer, err := c.smtpClient.Data()
	if err != nil {
		return newSendError(ErrSMTPData, nil, err)
	}
	if _, err = comp.WriteTo(&ctxWriter{ctx: ctx, w: writer}); err != nil {
		reason := ErrWriteContent
		if ctx.Err() != nil {
			reason = ErrCanceled
		}
		c.drop()
		return newSendError(reason, nil, err)
	}
	if err = writer.Close(); err != nil {
		return newSendError(ErrSMTPDataClose, nil, err)
	}
	return nil
}

// Close sends QUIT and closes the connection to the SMTP server
func (c *Client) Close() error {
	if c.smtpClient == nil || !c.smtpClient.HasConnection() {
		return ErrNoActiveConnection
	}
	defer func() {
		c.smtpClient = nil
		c.connection = nil
	}()
	if err := c.smtpClient.Quit(); err != nil {
		return fmt.Errorf("failed to close SMTP client: %w", err)
	}
	return nil
}

// Reset sends the RSET command to the SMTP server
func (c *Client) Reset() error {
	if err := c.checkConn(); err != nil {
		return err
	}
	if err := c.smtpClient.Reset(); err != nil {
		return fmt.Errorf("failed to send RSET to SMTP client: %w", err)
	}
	return nil
}

// checkConn makes sure that a required server connection is available and extends the connection
// deadline
func (c *Client) checkConn() error {
	if c.connection == nil || c.smtpClient == nil {
		return ErrNoActiveConnection
	}
	if !c.noNoop {
		if err := c.smtpClient.Noop(); err != nil {
			return ErrNoActiveConnection
		}
	}
	if err := c.smtpClient.UpdateDeadline(c.connTimeout); err != nil {
		return ErrDeadlineExtendFailed
	}
	return nil
}

// resetWith sends RSET after a failed transaction step and adds a failure of it to the SendError
func (c *Client) resetWith(sendErr *SendError) *SendError {
	if err := c.smtpClient.Reset(); err != nil {
		sendErr.errlist = append(sendErr.errlist, newSendError(ErrSMTPReset, nil, err))
	}
	return sendErr
}

// abort closes the connection after a failed dial step and returns err
func (c *Client) abort(err error) error {
	c.drop()
	return err
}

// drop closes the connection without QUIT
func (c *Client) drop() {
	if c.smtpClient != nil {
		_ = c.smtpClient.Close()
	}
	c.smtpClient = nil
	c.connection = nil
}

// tls tries to make sure that the STARTTLS requirements are satisfied
func (c *Client) tls() error {
	if c.useSSL || c.tlspolicy == NoTLS {
		return nil
	}
	hasStartTLS, _ := c.smtpClient.Extension("STARTTLS")
	if !hasStartTLS {
		if c.tlspolicy == TLSMandatory {
			return fmt.Errorf("STARTTLS mode set to: %q, but target host does not support STARTTLS",
				c.tlspolicy)
		}
		return nil
	}
	if err := c.smtpClient.StartTLS(c.tlsconfig); err != nil {
		return err
	}
	_, err := c.smtpClient.TLSConnectionState()
	c.isEncrypted = err == nil
	return nil
}

// auth will try to perform SMTP AUTH if requested
func (c *Client) auth() error {
	if c.smtpAuth == nil && c.smtpAuthType != SMTPAuthNoAuth {
		hasAuth, mechs := c.smtpClient.Extension("AUTH")
		if !hasAuth {
			return errors.New("server does not support SMTP AUTH")
		}
		if !containsMech(mechs, string(c.smtpAuthType)) {
			return fmt.Errorf("%w: %s", ErrAuthNotSupported, c.smtpAuthType)
		}

		switch c.smtpAuthType {
		case SMTPAuthPlain:
			c.smtpAuth = smtp.PlainAuth("", c.user, c.pass, c.host, false)
		case SMTPAuthLogin:
			c.smtpAuth = smtp.LoginAuth(c.user, c.pass, c.host, false)
		case SMTPAuthXOAUTH2:
			c.smtpAuth = smtp.XOAuth2Auth(c.user, c.pass)
		case SMTPAuthSCRAMSHA1:
			c.smtpAuth = smtp.ScramSHA1Auth(c.user, c.pass)
		case SMTPAuthSCRAMSHA256:
			c.smtpAuth = smtp.ScramSHA256Auth(c.user, c.pass)
		case SMTPAuthNTLM:
			c.smtpAuth = smtp.NTLMv2Auth(c.user, c.pass, c.helo)
		default:
			return fmt.Errorf("unsupported SMTP AUTH type %q", c.smtpAuthType)
		}
	}

	if c.smtpAuth != nil {
		if err := c.smtpClient.Auth(c.smtpAuth); err != nil {
			return fmt.Errorf("SMTP AUTH failed: %w", err)
		}
	}
	return nil
}

// containsMech reports whether the AUTH extension parameters list the mechanism
func containsMech(mechs, mech string) bool {
	for _, m := range strings.Fields(mechs) {
		if strings.EqualFold(m, mech) {
			return true
		}
	}
	return false
}
