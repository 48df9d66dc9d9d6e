// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"net/textproto"
	"regexp"
	"strings"
)

// ErrDeliveryFailed is matched by every SendError through errors.Is. It marks failures of the transport
// that happened after the message was composed.
var ErrDeliveryFailed = errors.New("delivery failed")

// List of SendError reasons
const (
	// ErrSMTPMailFrom is returned if the delivery failed when sending the MAIL FROM command
	ErrSMTPMailFrom SendErrReason = iota

	// ErrSMTPRcptTo is returned if the delivery failed when sending the RCPT TO command
	ErrSMTPRcptTo

	// ErrSMTPData is returned if the delivery failed when sending the DATA command
	ErrSMTPData

	// ErrSMTPDataClose is returned if the delivery failed when closing the DATA writer
	ErrSMTPDataClose

	// ErrSMTPReset is returned if the delivery failed when sending the RSET command
	ErrSMTPReset

	// ErrWriteContent is returned if the delivery failed while streaming the Composition
	ErrWriteContent

	// ErrConnCheck is returned if the connection to the server is not usable
	ErrConnCheck

	// ErrCanceled is returned if the context of the delivery was canceled while streaming
	ErrCanceled

	// ErrAPISend is returned if the delivery through an HTTP API like AWS SES failed
	ErrAPISend

	// ErrAmbiguous is returned if the exact reason for the delivery failure is ambiguous
	ErrAmbiguous
)

// enhancedStatusRe matches RFC 3463 enhanced status codes in server responses.
var enhancedStatusRe = regexp.MustCompile(`\b([245])\.\d{1,3}\.\d{1,3}\b`)

// SendError is an error wrapper for delivery errors of a Composition.
type SendError struct {
	errcode            int
	enhancedStatusCode string
	errlist            []error
	isTemp             bool
	rcpt               []string
	Reason             SendErrReason
}

// SendErrReason represents a comparable reason on why the delivery failed
type SendErrReason int

// NewSendError returns a SendError for the given reason. It is meant for Transport implementations
// outside of this package.
func NewSendError(reason SendErrReason, rcpts []string, errs ...error) *SendError {
	return newSendError(reason, rcpts, errs...)
}

// newSendError returns a SendError for the given reason. Server response codes are taken from the
// first error in errs that carries one.
func newSendError(reason SendErrReason, rcpts []string, errs ...error) *SendError {
	se := &SendError{Reason: reason, rcpt: rcpts}
	for _, err := range errs {
		if err == nil {
			continue
		}
		se.errlist = append(se.errlist, err)
		if se.errcode == 0 {
			se.errcode = errorCode(err)
			se.isTemp = se.errcode >= 400 && se.errcode < 500
			se.enhancedStatusCode = enhancedStatusCode(err)
		}
	}
	return se
}

// Error implements the error interface for the SendError type
func (e *SendError) Error() string {
	if e.Reason > ErrAmbiguous {
		return "unknown reason"
	}

	var errMessage strings.Builder
	errMessage.WriteString(e.Reason.String())
	if len(e.errlist) > 0 {
		errMessage.WriteRune(':')
		for i := range e.errlist {
			errMessage.WriteRune(' ')
			errMessage.WriteString(e.errlist[i].Error())
			if i != len(e.errlist)-1 {
				errMessage.WriteString(",")
			}
		}
	}
	if len(e.rcpt) > 0 {
		errMessage.WriteString(", affected recipient(s): ")
		errMessage.WriteString(strings.Join(e.rcpt, ", "))
	}
	return errMessage.String()
}

// Is implements the errors.Is functionality. A SendError matches ErrDeliveryFailed and every SendError
// with the same reason and temporary status.
func (e *SendError) Is(errType error) bool {
	if errType == ErrDeliveryFailed {
		return true
	}
	var t *SendError
	if errors.As(errType, &t) && t != nil {
		return e.Reason == t.Reason && e.isTemp == t.isTemp
	}
	return false
}

// Unwrap returns the underlying errors of the SendError.
func (e *SendError) Unwrap() []error {
	return e.errlist
}

// IsTemp returns true if the delivery error is of a temporary nature and can be retried.
func (e *SendError) IsTemp() bool {
	if e == nil {
		return false
	}
	return e.isTemp
}

// EnhancedStatusCode returns the RFC 3463 enhanced status code of the server response, or an empty
// string if the server did not send one.
func (e *SendError) EnhancedStatusCode() string {
	if e == nil {
		return ""
	}
	return e.enhancedStatusCode
}

// ErrorCode returns the reply code of the server response, or 0 if the error was not returned by the
// server.
func (e *SendError) ErrorCode() int {
	if e == nil {
		return 0
	}
	return e.errcode
}

// String satisfies the fmt.Stringer interface for the SendErrReason type.
func (r SendErrReason) String() string {
	switch r {
	case ErrSMTPMailFrom:
		return "sending SMTP MAIL FROM command"
	case ErrSMTPRcptTo:
		return "sending SMTP RCPT TO command"
	case ErrSMTPData:
		return "sending SMTP DATA command"
	case ErrSMTPDataClose:
		return "closing SMTP DATA writer"
	case ErrSMTPReset:
		return "sending SMTP RESET command"
	case ErrWriteContent:
		return "sending message content"
	case ErrConnCheck:
		return "checking SMTP connection"
	case ErrCanceled:
		return "delivery canceled"
	case ErrAPISend:
		return "sending message through API"
	case ErrAmbiguous:
		return "ambiguous reason"
	}
	return "unknown reason"
}

// errorCode returns the reply code of a server response error.
func errorCode(err error) int {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code
	}
	return 0
}

// enhancedStatusCode extracts the enhanced status code of a server response error.
func enhancedStatusCode(err error) string {
	var tpErr *textproto.Error
	if !errors.As(err, &tpErr) {
		return ""
	}
	if tpErr.Code < 200 || tpErr.Code >= 600 {
		return ""
	}
	return enhancedStatusRe.FindString(tpErr.Msg)
}
