// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package torznab

import (
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<indexers>
  <indexer id="thepiratebay" configured="true" type="public">
    <title>The Pirate Bay</title>
    <description>Public tracker</description>
  </indexer>
  <indexer id="privatehd" configured="true" type="private">
    <title>PrivateHD</title>
  </indexer>
  <indexer id="rarbg" configured="false" type="public">
    <title>RARBG</title>
  </indexer>
  <indexer id="notready" type="public">
    <title>Not Ready</title>
  </indexer>
</indexers>`

func TestScanIndexers(t *testing.T) {
	records := ScanIndexers(sampleFeed)

	if len(records) != 2 {
		t.Fatalf("expected 2 configured indexers, got %d", len(records))
	}

	if records[0].ID != "thepiratebay" || records[0].Name != "The Pirate Bay" || records[0].Type != "public" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].ID != "privatehd" || records[1].Type != "private" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
	for _, r := range records {
		if !r.Configured {
			t.Errorf("unconfigured record surfaced: %+v", r)
		}
	}
}

func TestScanIndexersMissingTitle(t *testing.T) {
	doc := `<indexer id="untitled" configured="true"></indexer>
<indexer id="other" configured="true"><title>Other</title></indexer>`

	records := ScanIndexers(doc)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Name falls back to the id, never to the next fragment's title.
	if records[0].Name != "untitled" {
		t.Errorf("expected name fallback to id, got %q", records[0].Name)
	}
	// Missing type defaults to public.
	if records[0].Type != "public" {
		t.Errorf("expected default type public, got %q", records[0].Type)
	}
}

func TestScanIndexersMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"empty document", "", 0},
		{"no indexers", "<indexers></indexers>", 0},
		{"unterminated tag", `<indexer id="broken`, 0},
		{
			"broken fragment does not poison the rest",
			`<indexer id="broken configured="true <indexer id="good" configured="true"><title>Good</title></indexer>`,
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(ScanIndexers(tt.doc)); got != tt.want {
				t.Errorf("got %d records, want %d", got, tt.want)
			}
		})
	}
}

func TestCountConfigured(t *testing.T) {
	if got := CountConfigured(sampleFeed); got != 2 {
		t.Errorf("CountConfigured = %d, want 2", got)
	}
	if got := CountConfigured(""); got != 0 {
		t.Errorf("CountConfigured on empty document = %d, want 0", got)
	}
}

func TestCountConfiguredMatchesScan(t *testing.T) {
	// The cheap counting pass and the full listing pass must agree.
	docs := []string{
		sampleFeed,
		`<indexer id="a" configured="true"/><indexer id="b" configured="true"/><indexer id="c"/>`,
		`<indexer configured="false"/>`,
	}
	for _, doc := range docs {
		if got, want := CountConfigured(doc), len(ScanIndexers(doc)); got != want {
			t.Errorf("CountConfigured = %d, ScanIndexers found %d", got, want)
		}
	}
}

func TestCountConfiguredWindow(t *testing.T) {
	// configured="true" beyond the inspection window is not counted.
	doc := `<indexer id="x" ` + strings.Repeat(" ", countWindow) + `configured="true">`
	if got := CountConfigured(doc); got != 0 {
		t.Errorf("CountConfigured = %d, want 0 for token outside window", got)
	}
}
