package chunker

import (
	"strings"

	"text2phenotype.com/seqtag/types"
)

const boundary = "bos"

// ContextGenerator reads the POS tags of the sentence from the additional
// context, as a []string aligned with the tokens.
type ContextGenerator struct{}

func (ContextGenerator) GetContext(index int, tokens []*types.Token, priorDecisions []string, additionalContext interface{}) []string {
	tags, _ := additionalContext.([]string)

	word := func(i int) string {
		if i < 0 || i >= len(tokens) {
			return boundary
		}
		return strings.ToLower(tokens[i].Text)
	}
	tag := func(i int) string {
		if i < 0 || i >= len(tags) {
			return boundary
		}
		return tags[i]
	}
	prior := func(i int) string {
		if i < 0 {
			return boundary
		}
		return priorDecisions[i]
	}

	w0, t0 := word(index), tag(index)
	wp, tp := word(index-1), tag(index-1)
	wpp, tpp := word(index-2), tag(index-2)
	wn, tn := word(index+1), tag(index+1)
	wnn, tnn := word(index+2), tag(index+2)
	cp, cpp := prior(index-1), prior(index-2)

	return []string{
		"default",
		"w0=" + w0,
		"t0=" + t0,
		"w0t0=" + w0 + "|" + t0,
		"w-1=" + wp,
		"t-1=" + tp,
		"w-2=" + wpp,
		"t-2=" + tpp,
		"w1=" + wn,
		"t1=" + tn,
		"w2=" + wnn,
		"t2=" + tnn,
		"t-1t0=" + tp + "|" + t0,
		"t0t1=" + t0 + "|" + tn,
		"c-1=" + cp,
		"c-2c-1=" + cpp + "|" + cp,
		"c-1t0=" + cp + "|" + t0,
	}
}
