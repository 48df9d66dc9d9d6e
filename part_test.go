// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import "testing"

func TestPart_header(t *testing.T) {
	tests := []struct {
		name string
		part *Part
		want map[string]string
	}{
		{
			"message part",
			&Part{ctype: "text/plain; charset=\"UTF-8\"", enc: NoEncoding},
			map[string]string{
				"Content-Type":              "text/plain; charset=\"UTF-8\"",
				"Content-Transfer-Encoding": "8bit",
			},
		},
		{
			"named attachment",
			&Part{ctype: "application/pdf", enc: EncodingB64, filename: "report.pdf"},
			map[string]string{
				"Content-Type":              "application/pdf",
				"Content-Transfer-Encoding": "base64",
				"Content-Disposition":       "attachment; filename=report.pdf; name=report.pdf",
			},
		},
		{
			"filename with spaces is quoted",
			&Part{ctype: "application/octet", enc: EncodingB64, filename: "my report.pdf"},
			map[string]string{
				"Content-Type":              "application/octet",
				"Content-Transfer-Encoding": "base64",
				"Content-Disposition":       "attachment; filename=\"my report.pdf\"; name=\"my report.pdf\"",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.part.header()
			if len(h) != len(tt.want) {
				t.Errorf("expected %d header fields, got %d", len(tt.want), len(h))
			}
			for k, v := range tt.want {
				if got := h.Get(k); got != v {
					t.Errorf("expected %s: %s, got %s", k, v, got)
				}
			}
		})
	}
}

func TestPart_release(t *testing.T) {
	p := &Part{ctype: "application/octet", cursor: NewCursor(nil, []byte("data"), false)}
	if p.Cursor() == nil {
		t.Fatal("expected part to have a cursor")
	}
	p.release()
	p.release()
	if p.Cursor() != nil {
		t.Error("expected cursor to be dropped after release")
	}
	if p.GetContentType() != "application/octet" {
		t.Error("expected content type to survive release")
	}
}
