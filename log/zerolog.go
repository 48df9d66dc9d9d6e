// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"github.com/rs/zerolog"
)

// Zerolog adapts a zerolog.Logger to the Logger interface. The direction of a message is added as
// nested "direction" object.
type Zerolog struct {
	level Level
	log   zerolog.Logger
}

// NewZerolog returns a new Zerolog that writes to the given zerolog.Logger
func NewZerolog(logger zerolog.Logger, level Level) *Zerolog {
	return &Zerolog{level: level, log: logger}
}

// Debugf logs a debug message via zerolog
func (l *Zerolog) Debugf(log Log) {
	if l.level >= LevelDebug {
		l.send(l.log.Debug(), log)
	}
}

// Infof logs an info message via zerolog
func (l *Zerolog) Infof(log Log) {
	if l.level >= LevelInfo {
		l.send(l.log.Info(), log)
	}
}

// Warnf logs a warn message via zerolog
func (l *Zerolog) Warnf(log Log) {
	if l.level >= LevelWarn {
		l.send(l.log.Warn(), log)
	}
}

// Errorf logs an error message via zerolog
func (l *Zerolog) Errorf(log Log) {
	if l.level >= LevelError {
		l.send(l.log.Error(), log)
	}
}

func (l *Zerolog) send(ev *zerolog.Event, log Log) {
	ev.Dict(DirString, zerolog.Dict().
		Str(DirFromString, log.directionFrom()).
		Str(DirToString, log.directionTo()),
	).Msg(log.message())
}
