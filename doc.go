// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

// Package utlmail composes internet messages as pull streams and delivers them through SMTP or
// other transports.
//
// A Composer turns a Message into a Composition: one header Cursor followed by zero or more Parts.
// Text bodies are normalized to CRLF line endings while they are read, so the message never exists
// in memory in its final form. A Transport pulls the Composition in chunks of any size.
package utlmail

// VERSION is used in the X-Mailer header of the CLI
const VERSION = "0.1.0"
