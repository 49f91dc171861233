// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package textscan

import (
	"strings"
	"testing"
)

func TestExtractAttribute(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		attr     string
		want     string
		wantOK   bool
	}{
		{
			name:     "simple attribute",
			fragment: `id="rarbg" type="public"`,
			attr:     "id",
			want:     "rarbg",
			wantOK:   true,
		},
		{
			name:     "second attribute",
			fragment: `id="rarbg" type="public"`,
			attr:     "type",
			want:     "public",
			wantOK:   true,
		},
		{
			name:     "missing attribute",
			fragment: `id="rarbg"`,
			attr:     "configured",
			wantOK:   false,
		},
		{
			name:     "unterminated value",
			fragment: `id="rarbg`,
			attr:     "id",
			wantOK:   false,
		},
		{
			name:     "empty value",
			fragment: `id=""`,
			attr:     "id",
			want:     "",
			wantOK:   true,
		},
		{
			name:     "value at bound limit is rejected",
			fragment: `id="` + strings.Repeat("a", MaxAttributeLen) + `"`,
			attr:     "id",
			wantOK:   false,
		},
		{
			name:     "value just under bound",
			fragment: `id="` + strings.Repeat("a", MaxAttributeLen-1) + `"`,
			attr:     "id",
			want:     strings.Repeat("a", MaxAttributeLen-1),
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAttribute(tt.fragment, tt.attr)
			if ok != tt.wantOK {
				t.Fatalf("ExtractAttribute ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractAttribute = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractElementText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		tag      string
		want     string
		wantOK   bool
	}{
		{
			name:     "simple element",
			fragment: `<title>The Pirate Bay</title>`,
			tag:      "title",
			want:     "The Pirate Bay",
			wantOK:   true,
		},
		{
			name:     "whitespace is trimmed",
			fragment: "<title>\n  1337x  \n</title>",
			tag:      "title",
			want:     "1337x",
			wantOK:   true,
		},
		{
			name:     "missing element",
			fragment: `<description>something</description>`,
			tag:      "title",
			wantOK:   false,
		},
		{
			name:     "unterminated element",
			fragment: `<title>The Pirate Bay`,
			tag:      "title",
			wantOK:   false,
		},
		{
			name:     "text at bound limit is rejected",
			fragment: "<title>" + strings.Repeat("x", MaxElementLen) + "</title>",
			tag:      "title",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractElementText(tt.fragment, tt.tag)
			if ok != tt.wantOK {
				t.Fatalf("ExtractElementText ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractElementText = %q, want %q", got, tt.want)
			}
		})
	}
}
