// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wneessen/go-utlmail"
	"github.com/wneessen/go-utlmail/config"
	"github.com/wneessen/go-utlmail/log"
)

// sendFlags holds the flags of the send command
type sendFlags struct {
	configFile string
	transport  string
	dryRun     bool

	from     string
	to       string
	cc       string
	bcc      string
	replyTo  string
	subject  string
	body     string
	bodyFile string
	mimeType string
	priority int

	attachFile string
	attachMime string
	attachName string
	attachText bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "utlmail",
		Short:         "Compose and send internet mail",
		Version:       utlmail.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSendCmd())
	return root
}

func newSendCmd() *cobra.Command {
	f := &sendFlags{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a mail",
		Long: `Send composes a mail from the given flags and delivers it through the configured transport.
Settings are read from an optional YAML file and UTLMAIL_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "path to the YAML configuration file")
	flags.StringVar(&f.transport, "transport", "", "transport to use: smtp, ses or stdout")
	flags.BoolVar(&f.dryRun, "dry-run", false, "write the mail to stdout instead of sending it")
	flags.StringVarP(&f.from, "from", "f", "", "sender address")
	flags.StringVarP(&f.to, "to", "t", "", "comma separated list of recipients")
	flags.StringVar(&f.cc, "cc", "", "comma separated list of carbon copy recipients")
	flags.StringVar(&f.bcc, "bcc", "", "comma separated list of blind carbon copy recipients")
	flags.StringVar(&f.replyTo, "reply-to", "", "reply-to address")
	flags.StringVarP(&f.subject, "subject", "s", "", "subject of the mail")
	flags.StringVarP(&f.body, "body", "b", "", "body of the mail")
	flags.StringVar(&f.bodyFile, "body-file", "", "read the body from a file, - reads stdin")
	flags.StringVar(&f.mimeType, "mime-type", "", "content type of the body")
	flags.IntVar(&f.priority, "priority", 0, "value of the X-Priority header")
	flags.StringVar(&f.attachFile, "attach", "", "file to attach")
	flags.StringVar(&f.attachMime, "attach-mime-type", "", "content type of the attachment")
	flags.StringVar(&f.attachName, "attach-name", "", "file name of the attachment, defaults to the base name")
	flags.BoolVar(&f.attachText, "attach-text", false, "treat the attachment as text")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runSend(cmd *cobra.Command, f *sendFlags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mailerOpts := []utlmail.MailerOption{
		utlmail.WithPermissionCheck(utlmail.AllowUsers(cfg.Security.AllowedUsers...)),
		utlmail.WithMailerLogger(log.NewZerolog(logger, level)),
	}
	if cfg.Tracing.Enabled {
		tp, err := initTracer(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg("failed to shut down tracer")
			}
		}()
		mailerOpts = append(mailerOpts, utlmail.WithTracer(tp.Tracer(tracerName)))
	}

	composerOpts, err := cfg.ComposerOptions()
	if err != nil {
		return err
	}
	composer, err := utlmail.NewComposer(composerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create composer: %w", err)
	}
	mailerOpts = append(mailerOpts, utlmail.WithComposer(composer))

	transport, err := newTransport(ctx, cfg, cmd.OutOrStdout(), log.NewZerolog(logger, level))
	if err != nil {
		return err
	}
	mailer, err := utlmail.NewMailer(transport, mailerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	msg, err := buildMessage(cmd, f)
	if err != nil {
		return err
	}
	if f.attachFile == "" {
		err = mailer.Send(ctx, msg)
	} else {
		err = sendWithAttachment(ctx, mailer, msg, f)
	}
	if err != nil {
		return err
	}
	logger.Debug().Str("transport", cfg.Transport).Msg("mail sent")
	return nil
}

// loadConfig reads the configuration and applies the transport flags
func loadConfig(f *sendFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configFile != "" {
		cfg, err = config.LoadFromFile(f.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if f.transport != "" {
		cfg.Transport = f.transport
	}
	if f.dryRun {
		cfg.Transport = config.TransportStdout
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns the zerolog logger for the configured format and level
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	out := w
	if cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w}
	}
	lvl, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("component", "utlmail").Logger()
}

// buildMessage returns the Message described by the flags
func buildMessage(cmd *cobra.Command, f *sendFlags) (*utlmail.Message, error) {
	msg := &utlmail.Message{
		Sender:     f.from,
		Recipients: f.to,
		Cc:         f.cc,
		Bcc:        f.bcc,
		ReplyTo:    f.replyTo,
		Subject:    f.subject,
		Body:       f.body,
		MimeType:   f.mimeType,
	}
	if cmd.Flags().Changed("priority") {
		msg.SetPriority(f.priority)
	}
	if f.bodyFile != "" {
		body, err := readInput(cmd, f.bodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		msg.Body = string(body)
	}
	return msg, nil
}

// readInput reads the named file, "-" reads the input of the command
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}
