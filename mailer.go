// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wneessen/go-utlmail/log"
)

// ErrNoTransport is returned if a Mailer has no Transport configured.
var ErrNoTransport = errors.New("no transport configured")

// tracerName is the instrumentation name of the spans created by the Mailer
const tracerName = "github.com/wneessen/go-utlmail"

// MailerOption returns a function that can be used for grouping Mailer options
type MailerOption func(*Mailer) error

// Mailer runs the complete send pipeline: permission check, composition, delivery through a Transport
// and the release of the Composition.
type Mailer struct {
	composer  *Composer
	logger    log.Logger
	permit    PermissionFunc
	tracer    trace.Tracer
	transport Transport
}

// NewMailer returns a new Mailer that delivers through the given Transport. A nil Transport is accepted,
// every send then fails with ErrNoTransport.
func NewMailer(transport Transport, opts ...MailerOption) (*Mailer, error) {
	composer, err := NewComposer()
	if err != nil {
		return nil, err
	}
	m := &Mailer{
		composer:  composer,
		tracer:    otel.Tracer(tracerName),
		transport: transport,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(m); err != nil {
			return m, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return m, nil
}

// WithComposer sets the Composer of the Mailer.
func WithComposer(composer *Composer) MailerOption {
	return func(m *Mailer) error {
		if composer == nil {
			return errors.New("composer must not be nil")
		}
		m.composer = composer
		return nil
	}
}

// WithPermissionCheck sets the PermissionFunc that must pass before a Message is composed.
func WithPermissionCheck(permit PermissionFunc) MailerOption {
	return func(m *Mailer) error {
		m.permit = permit
		return nil
	}
}

// WithMailerLogger sets the logger for delivery results of the Mailer.
func WithMailerLogger(logger log.Logger) MailerOption {
	return func(m *Mailer) error {
		m.logger = logger
		return nil
	}
}

// WithTracer overrides the tracer of the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) MailerOption {
	return func(m *Mailer) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		m.tracer = tracer
		return nil
	}
}

// Send composes the Message and delivers it through the Transport of the Mailer. The context is the
// cancellation token of the delivery.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	ctx, span := m.tracer.Start(ctx, "utlmail.Send")
	defer span.End()

	err := m.send(ctx, span, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metricFailed.WithLabelValues(failureReason(err)).Inc()
		m.logf(log.LevelError, "failed to send mail: %s", err)
		return err
	}
	metricSent.Inc()
	return nil
}

// SendAttachRaw sends the Message with a binary attachment. The data is base64 encoded verbatim.
func (m *Mailer) SendAttachRaw(ctx context.Context, msg *Message, data []byte, mimeType, filename string) error {
	return m.Send(ctx, withAttachment(msg, &Attachment{Data: data, MimeType: mimeType, Filename: filename}))
}

// SendAttachText sends the Message with a text attachment. The text defaults to the text/plain content
// type of the Composer and gets its line endings normalized like a message body.
func (m *Mailer) SendAttachText(ctx context.Context, msg *Message, text, mimeType, filename string) error {
	return m.Send(ctx, withAttachment(msg, &Attachment{
		Data:     []byte(text),
		MimeType: mimeType,
		Filename: filename,
		IsText:   true,
	}))
}

// send runs the pipeline. The Composition is closed on every path once it was created.
func (m *Mailer) send(ctx context.Context, span trace.Span, msg *Message) error {
	if m.permit != nil {
		if err := m.permit(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}
	if m.transport == nil {
		return ErrNoTransport
	}

	comp, err := m.composer.Compose(msg)
	if err != nil {
		return fmt.Errorf("failed to compose message: %w", err)
	}
	defer func() {
		_ = comp.Close()
	}()
	metricComposed.WithLabelValues(compositionKind(comp)).Inc()
	span.SetAttributes(
		attribute.Int("utlmail.recipients", len(comp.EnvelopeRecipients())),
		attribute.Int("utlmail.parts", len(comp.Parts())),
		attribute.Bool("utlmail.multipart", comp.IsMultipart()),
	)

	err = m.transport.Send(ctx, comp)
	metricStreamed.Add(float64(comp.Streamed()))
	span.SetAttributes(attribute.Int64("utlmail.streamed_bytes", comp.Streamed()))
	if err != nil {
		return err
	}
	m.logf(log.LevelInfo, "mail from %s to %d recipient(s) delivered, %d bytes", comp.EnvelopeFrom(),
		len(comp.EnvelopeRecipients()), comp.Streamed())
	return nil
}

// logf writes to the logger of the Mailer if one is set
func (m *Mailer) logf(level log.Level, format string, args ...interface{}) {
	if m.logger == nil {
		return
	}
	entry := log.Log{Direction: log.DirInternal, Format: format, Messages: args}
	switch level {
	case log.LevelError:
		m.logger.Errorf(entry)
	default:
		m.logger.Infof(entry)
	}
}

// withAttachment returns a copy of msg with the given Attachment.
func withAttachment(msg *Message, a *Attachment) *Message {
	if msg == nil {
		return nil
	}
	cp := *msg
	cp.Attachment = a
	return &cp
}
