// Package postag assigns part-of-speech tags with a maxent model decoded by
// beam search.
package postag

import (
	"text2phenotype.com/seqtag/beam"
	"text2phenotype.com/seqtag/types"
)

type Tagger struct {
	search *beam.Search[*types.Token]
}

// New builds a tagger. dict may be nil, in which case every tag is allowed
// for every word.
func New(model beam.Model, beamSize int, dict *DictionaryValidator, opts ...beam.Option) (*Tagger, error) {
	var validator beam.SequenceValidator[*types.Token]
	if dict != nil {
		validator = dict
	}
	search, err := beam.New[*types.Token](model, NewContextGenerator(dict.Words()), validator, beamSize, opts...)
	if err != nil {
		return nil, err
	}
	return &Tagger{search: search}, nil
}

func (t *Tagger) Tag(tokens []*types.Token) ([]string, error) {
	seq, err := t.search.BestSequence(tokens, nil)
	if err != nil {
		return nil, err
	}
	return seq.Outcomes(), nil
}

// TopK returns up to k tag sequences, best first.
func (t *Tagger) TopK(tokens []*types.Token, k int) ([]beam.Sequence, error) {
	return t.search.TopKSequences(tokens, nil, k, 0)
}
