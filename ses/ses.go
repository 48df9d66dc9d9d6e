// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

// Package ses implements a utlmail.Transport that delivers raw messages through the AWS SES v2 API.
package ses

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/wneessen/go-utlmail"
)

// Config holds the settings for New.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SendEmailAPI is the subset of the SES v2 client used by the Transport.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Transport sends a Composition as raw message. SES takes the message as a single payload, so the
// Composition is pulled completely before the request is made.
type Transport struct {
	client SendEmailAPI
}

// New returns a Transport for the given region. Static credentials are used if both keys are set,
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Transport, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(sesv2.NewFromConfig(awsCfg)), nil
}

// NewWithClient returns a Transport that uses the given client.
func NewWithClient(client SendEmailAPI) *Transport {
	return &Transport{client: client}
}

// Send satisfies the utlmail.Transport interface.
func (t *Transport) Send(ctx context.Context, comp *utlmail.Composition) error {
	if comp == nil {
		return fmt.Errorf("%w: composition is nil", utlmail.ErrInvalidArgument)
	}
	rcpts := comp.EnvelopeRecipients()

	var raw bytes.Buffer
	if _, err := comp.WriteTo(&raw); err != nil {
		return utlmail.NewSendError(utlmail.ErrWriteContent, rcpts, err)
	}
	if err := ctx.Err(); err != nil {
		return utlmail.NewSendError(utlmail.ErrCanceled, rcpts, err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(comp.EnvelopeFrom()),
		Destination:      &types.Destination{ToAddresses: rcpts},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw.Bytes()},
		},
	}
	if _, err := t.client.SendEmail(ctx, input); err != nil {
		reason := utlmail.ErrAPISend
		if ctx.Err() != nil {
			reason = utlmail.ErrCanceled
		}
		return utlmail.NewSendError(reason, rcpts, err)
	}
	return nil
}
