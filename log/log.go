// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

// Package log implements the logger interface that is used by the go-utlmail packages and three
// implementations of it: a plain text logger, a structured JSON logger and a zerolog adapter.
package log

import (
	"fmt"
	"strings"
)

const (
	DirServerToClient Direction = iota // Server to Client communication
	DirClientToServer                  // Client to Server communication
	DirInternal                        // Messages of the library itself
)

const (
	LevelError Level = iota // Only errors are logged
	LevelWarn               // Warnings and errors are logged
	LevelInfo               // Informational messages and above are logged
	LevelDebug              // Everything is logged, including the SMTP dialog
)

const (
	// DirString is the group name of the direction in structured log messages
	DirString = "direction"

	// DirFromString is the key of the origin of a message in structured log messages
	DirFromString = "from"

	// DirToString is the key of the destination of a message in structured log messages
	DirToString = "to"
)

// Direction is a type wrapper for the direction a debug log message goes
type Direction int

// Level is the log level of a Logger
type Level int

// Log represents a log message type that holds a log Direction, a Format string
// and a slice of Messages
type Log struct {
	Direction Direction
	Format    string
	Messages  []interface{}
}

// Logger is the log interface for go-utlmail
type Logger interface {
	Debugf(Log)
	Infof(Log)
	Warnf(Log)
	Errorf(Log)
}

// ParseLevel returns the Level for the given name. Known names are "error", "warn", "info" and "debug".
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", name)
	}
}

// String satisfies the fmt.Stringer interface for the Level type
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// message returns the formatted message of the Log
func (l Log) message() string {
	return fmt.Sprintf(l.Format, l.Messages...)
}

// directionPrefix returns the prefix of plain text log lines for the Direction of the Log
func (l Log) directionPrefix() string {
	switch l.Direction {
	case DirServerToClient:
		return "C <-- S:"
	case DirClientToServer:
		return "C --> S:"
	default:
		return "utlmail:"
	}
}

// directionFrom returns the origin of the Log
func (l Log) directionFrom() string {
	switch l.Direction {
	case DirServerToClient:
		return "server"
	case DirClientToServer:
		return "client"
	default:
		return "utlmail"
	}
}

// directionTo returns the destination of the Log
func (l Log) directionTo() string {
	switch l.Direction {
	case DirServerToClient:
		return "client"
	case DirClientToServer:
		return "server"
	default:
		return "utlmail"
	}
}
