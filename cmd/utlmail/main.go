// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

// Command utlmail composes a mail from its flags and sends it through SMTP, AWS SES or to stdout.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("utlmail failed")
		os.Exit(1)
	}
}
