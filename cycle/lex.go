package cycle

import (
	"strings"
	"unicode"

	"github.com/halfnote/seq/seqerr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokLBracket
	tokRBracket
	tokLAngle
	tokRAngle
	tokLBrace
	tokRBrace
	tokPercent
	tokComma
	tokPipe
	tokStar
	tokBang
	tokColon
	tokQuestion
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var singleCharTokens = map[rune]tokenKind{
	'[': tokLBracket,
	']': tokRBracket,
	'<': tokLAngle,
	'>': tokRAngle,
	'{': tokLBrace,
	'}': tokRBrace,
	'%': tokPercent,
	',': tokComma,
	'|': tokPipe,
	'*': tokStar,
	'!': tokBang,
	':': tokColon,
	'?': tokQuestion,
	'/': tokSlash,
	'(': tokLParen,
	')': tokRParen,
}

// lex tokenizes a mini-notation source string. Each of the structural
// characters `[]<>{}%,|*!:?/()` is a single-character token; any other
// run of characters up to whitespace, a structural character or a quote
// becomes one word (pitches, names, numbers, rest `~`, hold `_`), and a
// double-quoted run becomes one word token with the quotes stripped.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		c := runes[i]
		if unicode.IsSpace(c) {
			i++
			continue
		}
		if c == '"' {
			start := i
			i++
			var sb strings.Builder
			for i < len(runes) && runes[i] != '"' {
				sb.WriteRune(runes[i])
				i++
			}
			if i >= len(runes) {
				return nil, seqerr.NewParseError("string", src[start:], "unterminated quoted name")
			}
			i++ // consume closing quote
			toks = append(toks, token{kind: tokWord, text: sb.String(), pos: start})
			continue
		}
		if kind, ok := singleCharTokens[c]; ok {
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
			continue
		}
		start := i
		for i < len(runes) {
			c = runes[i]
			if unicode.IsSpace(c) {
				break
			}
			if _, ok := singleCharTokens[c]; ok {
				break
			}
			if c == '"' {
				break
			}
			i++
		}
		toks = append(toks, token{kind: tokWord, text: string(runes[start:i]), pos: start})
	}
	toks = append(toks, token{kind: tokEOF, text: "", pos: len(runes)})
	return toks, nil
}
