// Package detector classifies message text into a language tag using script
// heuristics. Detection is deterministic, needs no I/O and never fails; when
// nothing matches it falls back to DefaultLanguage.
package detector

import "regexp"

// DefaultLanguage is returned for empty input and for text whose script gives
// no usable signal (most Latin-alphabet languages other than English).
const DefaultLanguage = "en"

// scriptChecks are tried in order. Unambiguous non-Latin scripts come first;
// kana is tested before Han so Japanese text that mixes kanji resolves to ja.
// English is last and uses a strict charset so accented Latin text never
// false-positives as en.
var scriptChecks = []struct {
	code string
	re   *regexp.Regexp
}{
	{"ja", regexp.MustCompile(`[\x{3040}-\x{30FF}]`)},
	{"ko", regexp.MustCompile(`[\x{AC00}-\x{D7A3}]`)},
	{"zh-TW", regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`)},
	{"th", regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`)},
	{"ar", regexp.MustCompile(`[\x{0600}-\x{06FF}]`)},
	{"ru", regexp.MustCompile(`[\x{0400}-\x{04FF}]`)},
	{"hi", regexp.MustCompile(`[\x{0900}-\x{097F}]`)},
}

var (
	asciiOnly   = regexp.MustCompile(`^[\x00-\x7F]*$`)
	asciiLetter = regexp.MustCompile(`[A-Za-z]`)
)

// Detect returns the language tag of text. First matching script wins.
func Detect(text string) string {
	if text == "" {
		return DefaultLanguage
	}
	for _, c := range scriptChecks {
		if c.re.MatchString(text) {
			return c.code
		}
	}
	if asciiOnly.MatchString(text) && asciiLetter.MatchString(text) {
		return "en"
	}
	return DefaultLanguage
}
