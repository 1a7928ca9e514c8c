package types

import (
	"strings"
	"unicode"
)

type Token struct {
	Span
	Tag      string
	Chunk    string
	Name     string
	IsPunct  bool
	IsNumber bool
	Shape    string
}

func NewToken(text string, begin int32) *Token {
	return &Token{
		Span: Span{
			Begin: begin,
			End:   begin + int32(len([]rune(text))),
			Text:  text,
		},
		Shape:    GetShape(text),
		IsPunct:  isPunct(text),
		IsNumber: isNumber(text),
	}
}

func GetShape(txt string) string {
	var sb strings.Builder
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune('d')
		case unicode.IsUpper(r):
			sb.WriteRune('X')
		default:
			sb.WriteRune('x')
		}
	}

	return sb.String()
}

func Texts(tokens []*Token) []string {
	res := make([]string, len(tokens))
	for i, token := range tokens {
		res[i] = token.Text
	}
	return res
}

func Tags(tokens []*Token) []string {
	res := make([]string, len(tokens))
	for i, token := range tokens {
		res[i] = token.Tag
	}
	return res
}

func isPunct(txt string) bool {
	if len(txt) == 0 {
		return false
	}
	for _, r := range txt {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

func isNumber(txt string) bool {
	hasDigit := false
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '.' || r == ',' || r == '-':
		default:
			return false
		}
	}
	return hasDigit
}
