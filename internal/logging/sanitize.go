// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package logging

import (
	"strings"
	"unicode"
)

const maxLoggedValueLen = 128

// SanitizeSessionID keeps only a short prefix of a visitor session id so logs
// can be correlated without storing the full identifier.
func SanitizeSessionID(id string) string {
	id = SanitizeValue(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

// SanitizeValue strips control characters (log injection) and truncates
// caller-supplied strings before they are logged.
func SanitizeValue(v string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
	if len(clean) > maxLoggedValueLen {
		return clean[:maxLoggedValueLen] + "..."
	}
	return clean
}
