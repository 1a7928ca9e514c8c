package postag

import (
	"fmt"
	"strings"

	"text2phenotype.com/seqtag/beam"
	"text2phenotype.com/seqtag/types"
)

const (
	prefixLength = 4
	suffixLength = 4
)

var (
	sbToken = &types.Token{Span: types.Span{Text: "*SB*"}, Shape: "XX"}
	seToken = &types.Token{Span: types.Span{Text: "*SE*"}, Shape: "XX"}
)

// ContextGenerator produces the POS features of a token. Words present in
// knownWords skip the affix and orthographic features.
type ContextGenerator struct {
	knownWords map[string]bool
}

func NewContextGenerator(knownWords map[string]bool) *ContextGenerator {
	return &ContextGenerator{knownWords: knownWords}
}

func (g *ContextGenerator) GetContext(index int, tokens []*types.Token, tags []string, _ interface{}) []string {
	var next, prev, nextnext, prevprev *types.Token
	var tagprev, tagprevprev string

	next = seToken
	prev = sbToken

	lex := tokens[index].Text
	if len(tokens) > index+1 {
		next = tokens[index+1]
		nextnext = seToken
		if len(tokens) > index+2 {
			nextnext = tokens[index+2]
		}
	}

	if index > 0 {
		prev = tokens[index-1]
		prevprev = sbToken
		tagprev = tags[index-1]

		if index >= 2 {
			prevprev = tokens[index-2]
			tagprevprev = tags[index-2]
		}
	}

	contexts := make([]string, 0, 20)
	contexts = append(contexts, "default", "w="+lex)

	if !g.knownWords[lex] {
		for _, suf := range getSuffixes(lex) {
			contexts = append(contexts, "suf="+suf)
		}
		for _, pref := range getPrefixes(lex) {
			contexts = append(contexts, "pre="+pref)
		}

		if strings.ContainsRune(lex, '-') {
			contexts = append(contexts, "h")
		}
		if strings.ContainsRune(tokens[index].Shape, 'X') {
			contexts = append(contexts, "c")
		}
		if strings.ContainsRune(tokens[index].Shape, 'd') {
			contexts = append(contexts, "d")
		}
	}

	contexts = append(contexts, "p="+prev.Text)
	if len(tagprev) > 0 {
		contexts = append(contexts, "t="+tagprev)
	}

	if prevprev != nil {
		contexts = append(contexts, "pp="+prevprev.Text)
		if len(tagprevprev) > 0 {
			contexts = append(contexts, "t2="+tagprevprev+","+tagprev)
		}
	}

	contexts = append(contexts, "n="+next.Text)
	if nextnext != nil {
		contexts = append(contexts, "nn="+nextnext.Text)
	}

	return contexts
}

// NewScope returns a generator that memoizes contexts by position and the
// two previous tags for the duration of one search.
func (g *ContextGenerator) NewScope() beam.ContextGenerator[*types.Token] {
	return &cachedContext{gen: g, cache: make(map[string][]string)}
}

type cachedContext struct {
	gen   *ContextGenerator
	cache map[string][]string
}

func (c *cachedContext) GetContext(index int, tokens []*types.Token, tags []string, ac interface{}) []string {
	var tagprev, tagprevprev string
	if index > 0 {
		tagprev = tags[index-1]
	}
	if index > 1 {
		tagprevprev = tags[index-2]
	}
	key := fmt.Sprintf("%d|%s|%s", index, tagprev, tagprevprev)

	if ctx, ok := c.cache[key]; ok {
		return ctx
	}
	ctx := c.gen.GetContext(index, tokens, tags, ac)
	c.cache[key] = ctx
	return ctx
}

func getPrefixes(lex string) []string {
	runes := []rune(lex)
	prefs := make([]string, prefixLength)
	for li := 0; li < prefixLength; li++ {
		idx := len(runes)
		if idx > li+1 {
			idx = li + 1
		}
		prefs[li] = string(runes[:idx])
	}
	return prefs
}

func getSuffixes(lex string) []string {
	runes := []rune(lex)
	suffs := make([]string, suffixLength)
	for li := 0; li < suffixLength; li++ {
		idx := len(runes) - li - 1
		if idx < 0 {
			idx = 0
		}
		suffs[li] = string(runes[idx:])
	}
	return suffs
}
