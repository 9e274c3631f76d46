// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// maxTitleRunes caps the sanitized title length inside the filename.
const maxTitleRunes = 80

// Filename derives the output base name from a title and timestamp:
// <sanitized title>_<YYYYMMDD>_<HHMMSS>.pdf. Per prd002-export R2.2.
func Filename(title string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", sanitizeTitle(title), ts.Format("20060102_150405"))
}

// sanitizeTitle makes a title filesystem-safe while keeping non-Latin
// letters: path separators and reserved punctuation become hyphens, runs of
// whitespace become underscores, control characters are dropped.
func sanitizeTitle(title string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
			lastSpace = false
		case unicode.IsControl(r):
			// dropped
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune('_')
			}
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	s := strings.TrimLeft(b.String(), ".") // no hidden files
	if n := []rune(s); len(n) > maxTitleRunes {
		s = string(n[:maxTitleRunes])
	}
	if s == "" {
		s = "export"
	}
	return s
}
