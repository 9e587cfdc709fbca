package preview

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

const (
	langEnglish   = "en"
	langRussian   = "ru"
	langUkrainian = "uk"
	langGreek     = "el"

	cyrillicShare = 0.3
	greekShare    = 0.2
	latinShare    = 0.5

	englishStopwordShare = 0.08
)

var englishStopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "is": {}, "for": {}, "on": {}, "with": {},
	"as": {}, "by": {}, "from": {}, "at": {}, "that": {}, "this": {}, "be": {}, "are": {}, "was": {},
	"were": {}, "has": {}, "have": {}, "will": {}, "its": {}, "it": {},
}

// Letters only found in Ukrainian among Cyrillic alphabets.
const ukrainianLetters = "іїєґІЇЄҐ"

// normalizeLanguage reduces a declared BCP 47 tag or POSIX locale ("en-US",
// "en_GB") to its base language. Unparseable or undetermined tags give "".
func normalizeLanguage(declared string) string {
	declared = strings.ReplaceAll(strings.TrimSpace(declared), "_", "-")
	if declared == "" {
		return ""
	}

	tag, err := language.Parse(declared)
	if err != nil || tag == language.Und {
		return ""
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}

	return base.String()
}

// guessLanguage makes a script-based guess for text without a declared language.
// It returns "" when unsure.
func guessLanguage(text string) string {
	var latin, cyrillic, greek, letters int

	ukrainian := false

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}

		letters++

		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++

			ukrainian = ukrainian || strings.ContainsRune(ukrainianLetters, r)
		case unicode.Is(unicode.Greek, r):
			greek++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	if letters == 0 {
		return ""
	}

	share := func(n int) float64 { return float64(n) / float64(letters) }

	switch {
	case share(cyrillic) >= cyrillicShare && ukrainian:
		return langUkrainian
	case share(cyrillic) >= cyrillicShare:
		return langRussian
	case share(greek) >= greekShare:
		return langGreek
	case share(latin) >= latinShare && looksEnglish(text):
		return langEnglish
	default:
		return ""
	}
}

func looksEnglish(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	if len(words) == 0 {
		return false
	}

	hits := 0

	for _, w := range words {
		if _, ok := englishStopwords[w]; ok {
			hits++
		}
	}

	return hits > 0 && float64(hits)/float64(len(words)) >= englishStopwordShare
}
