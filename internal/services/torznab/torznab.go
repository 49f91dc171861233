// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package torznab scans Jackett's Torznab indexer listing. The feed is a
// flat sequence of <indexer ...>...</indexer> fragments; only indexers with
// configured="true" are of interest to the dashboard.
package torznab

import (
	"strings"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/textscan"
)

// indexerMarker opens each fragment. The trailing space keeps a hypothetical
// <indexers> wrapper element from matching.
const indexerMarker = "<indexer "

// countWindow is how far past each marker CountConfigured looks for the
// configured token. Enough for the opening tag's attributes, cheaper than a
// full scan.
const countWindow = 300

// ScanIndexers walks the document in order and returns one record per
// configured indexer. Malformed fragments are skipped, never reported as
// errors; a broken entry in the feed must not fail the whole listing.
func ScanIndexers(document string) []models.IndexerRecord {
	var records []models.IndexerRecord

	rest := document
	for {
		pos := strings.Index(rest, indexerMarker)
		if pos < 0 {
			break
		}
		rest = rest[pos+len(indexerMarker):]

		// Scan only the current fragment so a missing </title> or attribute
		// can never pick up text belonging to the next indexer.
		fragment := rest
		if end := strings.Index(rest, indexerMarker); end >= 0 {
			fragment = rest[:end]
		}

		configured, ok := textscan.ExtractAttribute(fragment, "configured")
		if !ok || configured != "true" {
			continue
		}

		id, _ := textscan.ExtractAttribute(fragment, "id")

		indexerType, ok := textscan.ExtractAttribute(fragment, "type")
		if !ok {
			indexerType = "public"
		}

		name, ok := textscan.ExtractElementText(fragment, "title")
		if !ok {
			name = id
		}

		records = append(records, models.IndexerRecord{
			ID:         id,
			Name:       name,
			Type:       indexerType,
			Configured: true,
		})
	}

	return records
}

// CountConfigured counts configured indexers without building records. Only
// the first countWindow bytes after each marker are inspected, which covers
// the opening tag; used by the Jackett health check.
func CountConfigured(document string) int {
	count := 0

	rest := document
	for {
		pos := strings.Index(rest, indexerMarker)
		if pos < 0 {
			break
		}
		rest = rest[pos+len(indexerMarker):]

		window := rest
		if len(window) > countWindow {
			window = window[:countWindow]
		}
		if strings.Contains(window, `configured="true"`) {
			count++
		}
	}

	return count
}
