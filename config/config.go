// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

// Package config loads the configuration of the utlmail command. A YAML file is the optional base
// layer, non-empty UTLMAIL_* environment variables always take precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wneessen/go-utlmail"
	"github.com/wneessen/go-utlmail/log"
)

// envPrefix is the prefix of all environment variables read by Load
const envPrefix = "UTLMAIL_"

// List of supported transports
const (
	TransportSMTP   = "smtp"
	TransportSES    = "ses"
	TransportStdout = "stdout"
)

// ErrInvalidConfig is returned by Validate for inconsistent or unparsable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete configuration of the utlmail command.
type Config struct {
	Transport string         `yaml:"transport"`
	SMTP      SMTPConfig     `yaml:"smtp"`
	SES       SESConfig      `yaml:"ses"`
	Compose   ComposeConfig  `yaml:"compose"`
	Security  SecurityConfig `yaml:"security"`
	Logging   LoggingConfig  `yaml:"logging"`
	Tracing   TracingConfig  `yaml:"tracing"`
}

// SMTPConfig holds the settings of the SMTP transport.
type SMTPConfig struct {
	URL       string        `yaml:"url"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	AuthType  string        `yaml:"auth_type"`
	TLSPolicy string        `yaml:"tls_policy"`
	Timeout   time.Duration `yaml:"timeout"`
	HELO      string        `yaml:"helo"`
}

// SESConfig holds the settings of the AWS SES transport.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ComposeConfig holds the settings of the message composer.
type ComposeConfig struct {
	Charset         string `yaml:"charset"`
	ListStyle       string `yaml:"list_style"`
	NormalizePolicy string `yaml:"normalize_policy"`
	MaxHeaderSize   int    `yaml:"max_header_size"`
}

// SecurityConfig holds the list of OS users that may send mail. An empty list permits everyone.
type SecurityConfig struct {
	AllowedUsers []string `yaml:"allowed_users"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig enables the stdout span exporter.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load returns the defaults overridden by environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile reads the YAML file at path on top of the defaults and then applies the environment
// variables.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnvVars()
	return cfg, nil
}

// Validate checks that all enumerated settings can be parsed and that the selected transport is
// configured.
func (c *Config) Validate() error {
	var errs []error
	switch c.Transport {
	case TransportSMTP:
		if c.SMTP.URL == "" {
			errs = append(errs, errors.New("smtp url is not specified"))
		}
	case TransportSES:
		if c.SES.Region == "" {
			errs = append(errs, errors.New("ses region is not specified"))
		}
	case TransportStdout:
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if _, err := utlmail.ParseTLSPolicy(c.SMTP.TLSPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := utlmail.ParseSMTPAuthType(c.SMTP.AuthType); err != nil {
		errs = append(errs, err)
	}
	if c.SMTP.Timeout <= 0 {
		errs = append(errs, errors.New("smtp timeout must be positive"))
	}
	if _, err := utlmail.CanonicalCharset(c.Compose.Charset); err != nil {
		errs = append(errs, err)
	}
	if _, err := utlmail.ParseListStyle(c.Compose.ListStyle); err != nil {
		errs = append(errs, err)
	}
	if _, err := utlmail.ParseNormalizePolicy(c.Compose.NormalizePolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SESStaticCredentials returns true if both SES access keys are set. Otherwise the default AWS
// credential chain is used.
func (c *Config) SESStaticCredentials() bool {
	return c.SES.AccessKeyID != "" && c.SES.SecretAccessKey != ""
}

// ComposerOptions translates the compose settings into utlmail.ComposerOption values.
func (c *Config) ComposerOptions() ([]utlmail.ComposerOption, error) {
	style, err := utlmail.ParseListStyle(c.Compose.ListStyle)
	if err != nil {
		return nil, err
	}
	policy, err := utlmail.ParseNormalizePolicy(c.Compose.NormalizePolicy)
	if err != nil {
		return nil, err
	}
	return []utlmail.ComposerOption{
		utlmail.WithCharset(c.Compose.Charset),
		utlmail.WithListStyle(style),
		utlmail.WithNormalizePolicy(policy),
		utlmail.WithMaxHeaderSize(c.Compose.MaxHeaderSize),
	}, nil
}

// ClientOptions translates the SMTP settings into utlmail.Option values for NewClientFromURL.
func (c *Config) ClientOptions() ([]utlmail.Option, error) {
	policy, err := utlmail.ParseTLSPolicy(c.SMTP.TLSPolicy)
	if err != nil {
		return nil, err
	}
	authType, err := utlmail.ParseSMTPAuthType(c.SMTP.AuthType)
	if err != nil {
		return nil, err
	}
	opts := []utlmail.Option{
		utlmail.WithTLSPolicy(policy),
		utlmail.WithTimeout(c.SMTP.Timeout),
	}
	if c.SMTP.HELO != "" {
		opts = append(opts, utlmail.WithHELO(c.SMTP.HELO))
	}
	if authType != utlmail.SMTPAuthNoAuth {
		opts = append(opts, utlmail.WithSMTPAuth(authType))
	}
	if c.SMTP.Username != "" {
		opts = append(opts, utlmail.WithUsername(c.SMTP.Username))
	}
	if c.SMTP.Password != "" {
		opts = append(opts, utlmail.WithPassword(c.SMTP.Password))
	}
	return opts, nil
}

// applyDefaults sets the default value of every setting.
func (c *Config) applyDefaults() {
	c.Transport = TransportSMTP
	c.SMTP.TLSPolicy = utlmail.DefaultTLSPolicy.String()
	c.SMTP.Timeout = utlmail.DefaultTimeout
	c.Compose.Charset = utlmail.DefaultCharset
	c.Compose.ListStyle = utlmail.ListStylePerLine.String()
	c.Compose.NormalizePolicy = utlmail.NormalizeTextPlain.String()
	c.Compose.MaxHeaderSize = utlmail.DefaultMaxHeaderSize
	c.Logging.Level = "info"
	c.Logging.Format = "console"
}

// applyEnvVars overrides settings with non-empty environment variables. Unparsable numbers and
// durations are ignored.
func (c *Config) applyEnvVars() {
	setString(&c.Transport, "TRANSPORT", true)
	setString(&c.SMTP.URL, "SMTP_URL", false)
	setString(&c.SMTP.Username, "SMTP_USERNAME", false)
	setString(&c.SMTP.Password, "SMTP_PASSWORD", false)
	setString(&c.SMTP.AuthType, "SMTP_AUTH_TYPE", false)
	setString(&c.SMTP.TLSPolicy, "SMTP_TLS_POLICY", false)
	setString(&c.SMTP.HELO, "SMTP_HELO", false)
	if v := getenv("SMTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SMTP.Timeout = d
		}
	}

	setString(&c.SES.Region, "SES_REGION", false)
	setString(&c.SES.AccessKeyID, "SES_ACCESS_KEY_ID", false)
	setString(&c.SES.SecretAccessKey, "SES_SECRET_ACCESS_KEY", false)

	setString(&c.Compose.Charset, "CHARSET", false)
	setString(&c.Compose.ListStyle, "LIST_STYLE", true)
	setString(&c.Compose.NormalizePolicy, "NORMALIZE_POLICY", true)
	if v := getenv("MAX_HEADER_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.Compose.MaxHeaderSize = size
		}
	}

	if v := getenv("ALLOWED_USERS"); v != "" {
		c.Security.AllowedUsers = nil
		for _, user := range strings.Split(v, ",") {
			if user = strings.TrimSpace(user); user != "" {
				c.Security.AllowedUsers = append(c.Security.AllowedUsers, user)
			}
		}
	}

	setString(&c.Logging.Level, "LOG_LEVEL", true)
	setString(&c.Logging.Format, "LOG_FORMAT", true)
	if v := getenv("TRACING"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Tracing.Enabled = enabled
		}
	}
}

func getenv(key string) string {
	return os.Getenv(envPrefix + key)
}

func setString(dst *string, key string, lower bool) {
	v := getenv(key)
	if v == "" {
		return
	}
	if lower {
		v = strings.ToLower(v)
	}
	*dst = v
}
