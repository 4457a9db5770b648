// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title turns raw publication strings into comparison keys and
// recognizes the filler entries some exports use to pad publication counts.
//
// Keys are compared by exact equality only. Two titles that differ in
// internal punctuation produce different keys.
package title

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// fillerRunes are the symbols that, together with digits and whitespace,
// make up placeholder entries.
const fillerRunes = "-–—_.•·▪▫◦‣⁃,;:!?"

// noiseTokens are placeholder words compared case-insensitively.
var noiseTokens = map[string]bool{
	"n/a":       true,
	"na":        true,
	"none":      true,
	"null":      true,
	"undefined": true,
}

// minTitleLen is the shortest trimmed string, in runes, that can be a title.
const minTitleLen = 3

var (
	enumPrefix = regexp.MustCompile(`^\d+\.\s*`)
	yearSuffix = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)

	dashesOnly      = regexp.MustCompile(`^[-–—_\s]+$`)
	bulletOnly      = regexp.MustCompile(`^[•·▪▫◦‣⁃]\s*$`)
	punctuationOnly = regexp.MustCompile(`^[.,;:!?]+$`)
)

// IsNoise reports whether s is a placeholder rather than a real title:
// empty, a placeholder token such as "n/a", shorter than three characters,
// or made only of digits, whitespace, dashes, bullets and punctuation.
func IsNoise(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if noiseTokens[strings.ToLower(s)] {
		return true
	}
	if utf8.RuneCountInString(s) < minTitleLen {
		return true
	}
	return onlyFiller(s)
}

func onlyFiller(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if !strings.ContainsRune(fillerRunes, r) {
			return false
		}
	}
	return true
}

// Normalize returns the comparison key for a raw title. Noise yields "".
// Otherwise a leading "N. " enumeration and a trailing " (YYYY)" are
// stripped, the text is NFC-normalized and lower-cased, and whitespace runs
// collapse to single spaces.
func Normalize(raw string) string {
	if IsNoise(raw) {
		return ""
	}

	s := strings.TrimSpace(raw)
	s = enumPrefix.ReplaceAllString(s, "")
	s = yearSuffix.ReplaceAllString(s, "")

	// What remains after stripping can itself be filler ("1. ---").
	if dashesOnly.MatchString(s) || bulletOnly.MatchString(s) || punctuationOnly.MatchString(s) {
		return ""
	}

	s = strings.ToLower(norm.NFC.String(s))
	return strings.Join(strings.Fields(s), " ")
}
