// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"log"
)

// CallDepth is the call depth value for the log.Logger's Output method
const CallDepth = 2

// Stdlog is the default logger that satisfies the Logger interface
type Stdlog struct {
	level Level
	err   *log.Logger
	warn  *log.Logger
	info  *log.Logger
	debug *log.Logger
}

// New returns a new Stdlog type that satisfies the Logger interface
func New(output io.Writer, level Level) *Stdlog {
	lf := log.Lmsgprefix | log.LstdFlags
	return &Stdlog{
		level: level,
		err:   log.New(output, "ERROR: ", lf),
		warn:  log.New(output, " WARN: ", lf),
		info:  log.New(output, " INFO: ", lf),
		debug: log.New(output, "DEBUG: ", lf),
	}
}

// Debugf performs a Printf() on the debug logger
func (l *Stdlog) Debugf(log Log) {
	l.output(LevelDebug, l.debug, log)
}

// Infof performs a Printf() on the info logger
func (l *Stdlog) Infof(log Log) {
	l.output(LevelInfo, l.info, log)
}

// Warnf performs a Printf() on the warn logger
func (l *Stdlog) Warnf(log Log) {
	l.output(LevelWarn, l.warn, log)
}

// Errorf performs a Printf() on the error logger
func (l *Stdlog) Errorf(log Log) {
	l.output(LevelError, l.err, log)
}

// output writes the Log to the logger if the level of the Stdlog permits it
func (l *Stdlog) output(level Level, logger *log.Logger, logData Log) {
	if l.level < level {
		return
	}
	_ = logger.Output(CallDepth+1, logData.directionPrefix()+" "+logData.message())
}
