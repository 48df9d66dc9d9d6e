// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Transport delivers a Composition. Implementations pull the message from the Composition and must
// observe the context as cancellation signal. The Composition is owned by the caller, a Transport must
// not close it.
type Transport interface {
	Send(ctx context.Context, comp *Composition) error
}

// TransportFunc is an adapter to allow the use of ordinary functions as Transport.
type TransportFunc func(ctx context.Context, comp *Composition) error

// Send calls f(ctx, comp).
func (f TransportFunc) Send(ctx context.Context, comp *Composition) error {
	return f(ctx, comp)
}

// WriterTransport writes every Composition to an io.Writer. It is used for dry runs and for piping
// messages into other tools.
type WriterTransport struct {
	mutex  sync.Mutex
	w      io.Writer
	prefix bool
}

// NewWriterTransport returns a WriterTransport for w. If withEnvelope is set, every message is
// preceded by the envelope sender and recipients in the form of an mbox "From " line and X-Rcpt lines.
func NewWriterTransport(w io.Writer, withEnvelope bool) *WriterTransport {
	return &WriterTransport{w: w, prefix: withEnvelope}
}

// Send writes the Composition to the io.Writer of the WriterTransport.
func (t *WriterTransport) Send(ctx context.Context, comp *Composition) error {
	if comp == nil {
		return fmt.Errorf("%w: composition is nil", ErrInvalidArgument)
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	cw := &ctxWriter{ctx: ctx, w: t.w}
	if t.prefix {
		if _, err := fmt.Fprintf(cw, "From %s\r\n", comp.EnvelopeFrom()); err != nil {
			return newSendError(ErrWriteContent, nil, err)
		}
		for _, rcpt := range comp.EnvelopeRecipients() {
			if _, err := fmt.Fprintf(cw, "X-Rcpt: %s\r\n", rcpt); err != nil {
				return newSendError(ErrWriteContent, nil, err)
			}
		}
	}
	if _, err := comp.WriteTo(cw); err != nil {
		reason := ErrWriteContent
		if ctx.Err() != nil {
			reason = ErrCanceled
		}
		return newSendError(reason, comp.EnvelopeRecipients(), err)
	}
	return nil
}

// ctxWriter fails every write once its context is done. It is the progress hook through which a
// transport observes cancellation while a Composition is streamed.
type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

// Write satisfies the io.Writer interface for the ctxWriter
func (cw *ctxWriter) Write(p []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}
