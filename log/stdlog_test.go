// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelDebug)
	if l.level != LevelDebug {
		t.Error("Expected level to be LevelDebug, got ", l.level)
	}
	if l.err == nil || l.warn == nil || l.info == nil || l.debug == nil {
		t.Error("Loggers not initialized")
	}
}

func TestStdlog_levels(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		logf   func(*Stdlog, Log)
		prefix string
	}{
		{"debug", LevelDebug, (*Stdlog).Debugf, "DEBUG: "},
		{"info", LevelInfo, (*Stdlog).Infof, " INFO: "},
		{"warn", LevelWarn, (*Stdlog).Warnf, " WARN: "},
		{"error", LevelError, (*Stdlog).Errorf, "ERROR: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			l := New(&b, tt.level)

			tt.logf(l, Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
			expected := tt.prefix + "C <-- S: test foo\n"
			if !strings.HasSuffix(b.String(), expected) {
				t.Errorf("Expected %q, got %q", expected, b.String())
			}
			tt.logf(l, Log{Direction: DirClientToServer, Format: "test %s", Messages: []interface{}{"foo"}})
			expected = tt.prefix + "C --> S: test foo\n"
			if !strings.HasSuffix(b.String(), expected) {
				t.Errorf("Expected %q, got %q", expected, b.String())
			}
			tt.logf(l, Log{Direction: DirInternal, Format: "composed %d bytes", Messages: []interface{}{42}})
			expected = tt.prefix + "utlmail: composed 42 bytes\n"
			if !strings.HasSuffix(b.String(), expected) {
				t.Errorf("Expected %q, got %q", expected, b.String())
			}
		})
	}
}

func TestStdlog_suppressed(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelError)
	msg := Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}}
	l.Debugf(msg)
	l.Infof(msg)
	l.Warnf(msg)
	if b.String() != "" {
		t.Errorf("Expected no output for level error, got %q", b.String())
	}
	l.Errorf(msg)
	if b.String() == "" {
		t.Error("Expected error message to be logged")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"error", LevelError, false},
		{"WARN", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"", LevelInfo, false},
		{"info", LevelInfo, false},
		{" debug ", LevelDebug, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %t", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}
