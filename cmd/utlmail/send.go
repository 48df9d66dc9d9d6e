// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/wneessen/go-utlmail"
	"github.com/wneessen/go-utlmail/config"
	"github.com/wneessen/go-utlmail/log"
	"github.com/wneessen/go-utlmail/ses"
)

// tracerName is the instrumentation name of the spans of the command
const tracerName = "utlmail"

// newTransport returns the Transport selected in the configuration. The stdout transport writes
// to out.
func newTransport(ctx context.Context, cfg *config.Config, out io.Writer, logger log.Logger) (utlmail.Transport, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		opts, err := cfg.ClientOptions()
		if err != nil {
			return nil, err
		}
		opts = append(opts, utlmail.WithLogger(logger))
		client, err := utlmail.NewClientFromURL(cfg.SMTP.URL, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP client: %w", err)
		}
		return client, nil
	case config.TransportSES:
		transport, err := ses.New(ctx, ses.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SES transport: %w", err)
		}
		return transport, nil
	case config.TransportStdout:
		return utlmail.NewWriterTransport(out, false), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// sendWithAttachment reads the attachment file and sends the Message with it
func sendWithAttachment(ctx context.Context, mailer *utlmail.Mailer, msg *utlmail.Message, f *sendFlags) error {
	data, err := os.ReadFile(f.attachFile)
	if err != nil {
		return fmt.Errorf("failed to read attachment: %w", err)
	}
	name := f.attachName
	if name == "" {
		name = filepath.Base(f.attachFile)
	}
	if f.attachText {
		return mailer.SendAttachText(ctx, msg, string(data), f.attachMime, name)
	}
	return mailer.SendAttachRaw(ctx, msg, data, f.attachMime, name)
}

// initTracer installs a tracer provider that exports spans to w.
func initTracer(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("utlmail"),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
