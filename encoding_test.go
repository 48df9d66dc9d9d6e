// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"errors"
	"testing"
)

func TestNormalizePolicy_Applies(t *testing.T) {
	tests := []struct {
		declared string
		policy   NormalizePolicy
		want     bool
	}{
		{"", NormalizeTextPlain, true},
		{"text/plain", NormalizeTextPlain, true},
		{"TEXT/Plain; charset=utf-8", NormalizeTextPlain, true},
		{"text/plain; broken=", NormalizeTextPlain, true},
		{"text/html", NormalizeTextPlain, false},
		{"application/json", NormalizeTextPlain, false},
		{"", NormalizeText, true},
		{"text/html; charset=utf-8", NormalizeText, true},
		{"application/octet", NormalizeText, false},
		{"", NormalizeNever, false},
		{"text/plain", NormalizeNever, false},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String()+"/"+tt.declared, func(t *testing.T) {
			if got := tt.policy.Applies(tt.declared); got != tt.want {
				t.Errorf("expected %t, got %t", tt.want, got)
			}
		})
	}
}

func TestParseNormalizePolicy(t *testing.T) {
	for _, p := range []NormalizePolicy{NormalizeTextPlain, NormalizeText, NormalizeNever} {
		got, err := ParseNormalizePolicy(p.String())
		if err != nil {
			t.Errorf("failed to parse %q: %s", p, err)
		}
		if got != p {
			t.Errorf("expected %s, got %s", p, got)
		}
	}
	if p, err := ParseNormalizePolicy(""); err != nil || p != NormalizeTextPlain {
		t.Errorf("expected empty name to select text-plain, got %s (%v)", p, err)
	}
	if _, err := ParseNormalizePolicy("always"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
	if NormalizePolicy(42).String() != "unknown" {
		t.Errorf("expected unknown policy string")
	}
}

func TestCanonicalCharset(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", DefaultCharset, false},
		{"utf-8", "UTF-8", false},
		{"latin1", "ISO-8859-1", false},
		{"no-such-charset", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalCharset(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCharset) {
					t.Errorf("expected ErrUnknownCharset, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncoding_String(t *testing.T) {
	if EncodingB64.String() != "base64" || NoEncoding.String() != "8bit" {
		t.Errorf("unexpected encoding names: %s, %s", EncodingB64, NoEncoding)
	}
	if TypeAppOctet.String() != "application/octet" {
		t.Errorf("unexpected octet type: %s", TypeAppOctet)
	}
}
