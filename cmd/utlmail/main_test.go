// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range os.Environ() {
		if name, _, ok := strings.Cut(env, "="); ok && strings.HasPrefix(name, "UTLMAIL_") {
			t.Setenv(name, "")
		}
	}
	t.Setenv("UTLMAIL_LOG_LEVEL", "error")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestSend_DryRun(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, "", "send", "--dry-run", "--from", "toni@example.com",
		"--to", "alice@example.com,bob@example.com", "--subject", "Hello", "--priority", "1",
		"--body", "line one\nline two")
	require.NoError(t, err)

	want := "From: toni@example.com\r\n" +
		"To: alice@example.com\r\n" +
		"To: bob@example.com\r\n" +
		"X-Priority: 1\r\n" +
		"Subject: Hello\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"Content-Transfer-Encoding: 8bit\r\n" +
		"\r\n" +
		"line one\r\nline two\r\n"
	assert.Equal(t, want, out)
}

func TestSend_BodyFromStdin(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, "from stdin\n", "send", "--transport", "stdout", "--from", "toni@example.com",
		"--to", "alice@example.com", "--body-file", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nfrom stdin\r\n"))
}

func TestSend_Attachment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	out, err := execute(t, "", "send", "--dry-run", "--from", "toni@example.com", "--to", "alice@example.com",
		"--body", "see attachment", "--attach", path)
	require.NoError(t, err)
	assert.Contains(t, out, "MIME-Version: 1.0\r\n")
	assert.Contains(t, out, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, out, "filename=data.bin")
	assert.Contains(t, out, "aGVsbG8=\r\n")
}

func TestSend_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing from", []string{"send", "--dry-run", "--to", "alice@example.com"}},
		{"missing to", []string{"send", "--dry-run", "--from", "toni@example.com"}},
		{"unknown transport", []string{"send", "--transport", "pigeon", "--from", "a@example.com", "--to", "b@example.com"}},
		{"smtp without url", []string{"send", "--from", "a@example.com", "--to", "b@example.com"}},
		{"missing config file", []string{"send", "-c", "/nonexistent/utlmail.yaml", "--from", "a@example.com", "--to", "b@example.com"}},
		{"missing attachment", []string{"send", "--dry-run", "--from", "a@example.com", "--to", "b@example.com", "--attach", "/nonexistent/file"}},
		{"body and body-file", []string{"send", "--dry-run", "--from", "a@example.com", "--to", "b@example.com", "--body", "x", "--body-file", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSend_PermissionDenied(t *testing.T) {
	clearEnv(t)
	t.Setenv("UTLMAIL_ALLOWED_USERS", "no-such-user-for-utlmail-tests")
	_, err := execute(t, "", "send", "--dry-run", "--from", "toni@example.com", "--to", "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}
