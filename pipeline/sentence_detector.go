package pipeline

import (
	"strings"
	"unicode"

	"text2phenotype.com/seqtag/types"
)

// abbreviations do not end a sentence or lose their period in tokenization.
var abbreviations = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "ms": true, "prof": true, "st": true,
	"vs": true, "etc": true, "e.g": true, "i.e": true, "no": true, "fig": true,
}

type SentenceDetector func(in <-chan string) <-chan types.Sentence

// NewSentenceDetector splits text on sentence final punctuation followed by
// a space and on blank lines. Offsets are rune offsets into the text.
func NewSentenceDetector() SentenceDetector {
	return func(in <-chan string) <-chan types.Sentence {
		out := make(chan types.Sentence)
		go func() {
			defer close(out)
			index := 0
			for text := range in {
				for _, sent := range splitSentences([]rune(text)) {
					sent.Index = index
					index++
					out <- sent
				}
			}
		}()
		return out
	}
}

func splitSentences(text []rune) []types.Sentence {
	var res []types.Sentence
	start := -1

	emit := func(end int) {
		if start < 0 {
			return
		}
		for end > start && unicode.IsSpace(text[end-1]) {
			end--
		}
		res = append(res, types.Sentence{Span: types.Span{
			Begin: int32(start),
			End:   int32(end),
			Text:  string(text[start:end]),
		}})
		start = -1
	}

	for i, r := range text {
		if start < 0 {
			if !unicode.IsSpace(r) {
				start = i
			}
			continue
		}
		switch {
		case r == '\n' && i+1 < len(text) && text[i+1] == '\n':
			emit(i)
		case (r == '.' || r == '!' || r == '?') && (i+1 == len(text) || unicode.IsSpace(text[i+1])):
			if r == '.' && isAbbreviation(text[start:i]) {
				continue
			}
			emit(i + 1)
		}
	}
	emit(len(text))
	return res
}

// isAbbreviation checks the word right before a period.
func isAbbreviation(prefix []rune) bool {
	i := len(prefix)
	for i > 0 && !unicode.IsSpace(prefix[i-1]) {
		i--
	}
	word := strings.TrimLeftFunc(string(prefix[i:]), isPunct)
	return keepsPeriod([]rune(word))
}
