package pipeline

import (
	"strings"
	"sync"
	"unicode"

	"text2phenotype.com/seqtag/types"
)

type Tokenizer func(in <-chan types.Sentence) <-chan types.Sentence

// NewTokenizer splits sentences on white space and detaches leading and
// trailing punctuation.
func NewTokenizer() Tokenizer {
	return func(in <-chan types.Sentence) <-chan types.Sentence {
		out := make(chan types.Sentence)

		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					sent.Tokens = tokenize(sent.Text, sent.Begin)
					out <- sent
				}(sent)
			}
			wg.Wait()
		}()

		return out
	}
}

func tokenize(text string, offset int32) []*types.Token {
	runes := []rune(text)
	var tokens []*types.Token

	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		tokens = append(tokens, splitWord(runes[i:j], offset+int32(i))...)
		i = j
	}
	return tokens
}

func splitWord(word []rune, offset int32) []*types.Token {
	var head, tail []*types.Token

	begin, end := 0, len(word)
	for begin < end && isPunct(word[begin]) {
		head = append(head, types.NewToken(string(word[begin]), offset+int32(begin)))
		begin++
	}
	for end > begin && isPunct(word[end-1]) {
		if word[end-1] == '.' && keepsPeriod(word[begin:end-1]) {
			break
		}
		tail = append(tail, types.NewToken(string(word[end-1]), offset+int32(end-1)))
		end--
	}

	res := head
	if end > begin {
		res = append(res, types.NewToken(string(word[begin:end]), offset+int32(begin)))
	}
	for k := len(tail) - 1; k >= 0; k-- {
		res = append(res, tail[k])
	}
	return res
}

func keepsPeriod(word []rune) bool {
	if len(word) == 0 {
		return false
	}
	if len(word) == 1 && unicode.IsUpper(word[0]) {
		return true
	}
	return abbreviations[strings.ToLower(string(word))]
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
