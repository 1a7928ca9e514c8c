package postag

import (
	"io"
	"strings"

	"text2phenotype.com/seqtag/types"
	"text2phenotype.com/seqtag/utils"
)

// DictionaryValidator restricts the tags of the words it knows. Other words
// may take any tag.
type DictionaryValidator struct {
	tags map[string]map[string]bool
}

// NewDictionaryValidator parses entries of the form word -> "TAG1 TAG2".
func NewDictionaryValidator(entries map[string]string) *DictionaryValidator {
	tags := make(map[string]map[string]bool, len(entries))
	for word, line := range entries {
		allowed := make(map[string]bool)
		for _, tag := range strings.Fields(line) {
			allowed[tag] = true
		}
		if len(allowed) > 0 {
			tags[word] = allowed
		}
	}
	return &DictionaryValidator{tags: tags}
}

// LoadTagDictionary reads a file of word|TAG1 TAG2 lines.
func LoadTagDictionary(filePath string) (*DictionaryValidator, error) {
	entries, err := utils.ReadMap(filePath)
	if err != nil {
		return nil, err
	}
	return NewDictionaryValidator(entries), nil
}

func ParseTagDictionary(r io.Reader, name string) (*DictionaryValidator, error) {
	entries, err := utils.ParseMap(r, name)
	if err != nil {
		return nil, err
	}
	return NewDictionaryValidator(entries), nil
}

func (v *DictionaryValidator) ValidSequence(i int, tokens []*types.Token, _ []string, outcome string) bool {
	if v == nil {
		return true
	}
	allowed, ok := v.tags[tokens[i].Text]
	if !ok {
		return true
	}
	return allowed[outcome]
}

func (v *DictionaryValidator) Words() map[string]bool {
	words := make(map[string]bool)
	if v == nil {
		return words
	}
	for word := range v.tags {
		words[word] = true
	}
	return words
}
