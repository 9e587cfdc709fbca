package parsednote

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind tells word tokens apart from the whitespace sentinels.
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenSpace
	TokenLinebreak
)

// Token is one piece of the body. Sentinel tokens keep the whitespace they replace
// in Text so that Join restores the input.
type Token struct {
	Kind TokenKind
	Text string
}

// IsSentinel reports whether the token stands for whitespace.
func (t Token) IsSentinel() bool {
	return t.Kind != TokenWord
}

// Tokenize splits raw at whitespace boundaries. Every whitespace run becomes a
// TokenSpace sentinel. With preserveLinebreaks each newline (\r\n, \r or \n) becomes
// its own TokenLinebreak sentinel and only the remaining whitespace forms spaces.
func Tokenize(raw string, preserveLinebreaks bool) []Token {
	var tokens []Token

	for i := 0; i < len(raw); {
		r, _ := utf8.DecodeRuneInString(raw[i:])

		switch {
		case preserveLinebreaks && isNewline(r):
			n := newlineLen(raw[i:])
			tokens = append(tokens, Token{Kind: TokenLinebreak, Text: raw[i : i+n]})
			i += n
		case unicode.IsSpace(r):
			end := spaceEnd(raw, i, preserveLinebreaks)
			tokens = append(tokens, Token{Kind: TokenSpace, Text: raw[i:end]})
			i = end
		default:
			end := wordEnd(raw, i)
			tokens = append(tokens, Token{Kind: TokenWord, Text: raw[i:end]})
			i = end
		}
	}

	return tokens
}

// Join concatenates token texts; Join(Tokenize(s, x)) == s.
func Join(tokens []Token) string {
	var sb strings.Builder

	for _, t := range tokens {
		sb.WriteString(t.Text)
	}

	return sb.String()
}

func isNewline(r rune) bool {
	return r == '\n' || r == '\r'
}

func newlineLen(s string) int {
	if strings.HasPrefix(s, "\r\n") {
		return 2
	}

	return 1
}

func spaceEnd(raw string, start int, stopAtNewline bool) int {
	end := start

	for end < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[end:])
		if !unicode.IsSpace(r) || (stopAtNewline && isNewline(r)) {
			break
		}

		end += size
	}

	return end
}

func wordEnd(raw string, start int) int {
	end := start

	for end < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return end
}
