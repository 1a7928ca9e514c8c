package namefind

import (
	"strings"
	"unicode"

	"text2phenotype.com/seqtag/types"
)

// AdaptiveData maps a token text to the outcome it last received in the
// current document.
type AdaptiveData map[string]string

// ContextGenerator takes an AdaptiveData as additional context, nil is fine.
type ContextGenerator struct{}

func (ContextGenerator) GetContext(index int, tokens []*types.Token, priorDecisions []string, additionalContext interface{}) []string {
	adaptive, _ := additionalContext.(AdaptiveData)

	token := tokens[index]
	lower := strings.ToLower(token.Text)
	class := TokenClass(token.Text)

	contexts := make([]string, 0, 16)
	contexts = append(contexts,
		"default",
		"w="+lower,
		"wc="+class,
		"w&c="+lower+","+class,
	)

	for _, off := range []int{-2, -1, 1, 2} {
		i := index + off
		if i < 0 || i >= len(tokens) {
			continue
		}
		pre := windowPrefix(off)
		contexts = append(contexts,
			pre+"w="+strings.ToLower(tokens[i].Text),
			pre+"wc="+TokenClass(tokens[i].Text),
		)
	}

	prev := "bos"
	if index > 0 {
		prev = priorDecisions[index-1]
	}
	contexts = append(contexts, "po="+prev, "pow="+prev+","+lower)

	if out, ok := adaptive[token.Text]; ok {
		contexts = append(contexts, "pd="+out)
	}
	return contexts
}

func windowPrefix(off int) string {
	switch off {
	case -2:
		return "pp"
	case -1:
		return "p"
	case 1:
		return "n"
	default:
		return "nn"
	}
}

// TokenClass names the orthographic shape of a token.
func TokenClass(txt string) string {
	if len(txt) == 0 {
		return "other"
	}

	var upper, lower, digit, other int
	for _, r := range txt {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		case unicode.IsDigit(r):
			digit++
		default:
			other++
		}
	}
	runes := []rune(txt)

	switch {
	case digit > 0 && upper == 0 && lower == 0 && other == 0:
		if len(runes) == 2 {
			return "2d"
		}
		if len(runes) == 4 {
			return "4d"
		}
		return "num"
	case digit > 0 && (upper > 0 || lower > 0):
		return "an"
	case digit > 0:
		return "dd"
	case upper == 0 && lower > 0:
		return "lc"
	case upper == 1 && len(runes) == 1:
		return "sc"
	case upper > 0 && lower == 0 && other == 0:
		return "ac"
	case unicode.IsUpper(runes[0]):
		return "ic"
	default:
		return "other"
	}
}
