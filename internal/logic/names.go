package logic

import (
	"strings"
	"unicode"

	"github.com/playpredict/forecast-api/internal/models"
)

// NormalizeName builds the canonical key used to match players across source
// spellings: whitespace and periods removed, lower-cased. "A.Dalton",
// "a dalton" and "ADalton" all map to "adalton".
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// IsPlayerName reports whether a raw name field holds a real player rather
// than a placeholder: empty, "NA", "0", a "00-" GSIS id or any all-digit code.
func IsPlayerName(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" || v == models.MissingMarker || v == "0" || strings.HasPrefix(v, "00-") {
		return false
	}

	allDigits := true
	hasLetter := false
	for _, r := range v {
		if !unicode.IsDigit(r) {
			allDigits = false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if allDigits {
		return false
	}
	return hasLetter
}

// playerKey classifies then normalizes a raw name field. Non-players yield "".
func playerKey(value string) string {
	if !IsPlayerName(value) {
		return ""
	}
	return NormalizeName(value)
}
