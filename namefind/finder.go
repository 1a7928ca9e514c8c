// Package namefind detects named entities with start/cont/other labels.
package namefind

import (
	"strings"

	"text2phenotype.com/seqtag/beam"
	"text2phenotype.com/seqtag/types"
)

type Finder struct {
	search      *beam.Search[*types.Token]
	defaultType string
}

// New builds a finder. Names found through untyped outcomes get defaultType.
func New(model beam.Model, beamSize int, defaultType string, opts ...beam.Option) (*Finder, error) {
	search, err := beam.New[*types.Token](model, ContextGenerator{}, Validator{}, beamSize, opts...)
	if err != nil {
		return nil, err
	}
	return &Finder{search: search, defaultType: defaultType}, nil
}

// Find returns the names of one sentence. When adaptive is not nil the
// outcomes are recorded into it for the following sentences of the document.
func (f *Finder) Find(tokens []*types.Token, adaptive AdaptiveData) ([]types.Chunk, error) {
	seq, err := f.search.BestSequence(tokens, adaptive)
	if err != nil {
		return nil, err
	}
	outcomes := seq.Outcomes()
	if adaptive != nil {
		for i, token := range tokens {
			adaptive[token.Text] = outcomes[i]
		}
	}
	return f.Spans(tokens, outcomes), nil
}

func (f *Finder) TopK(tokens []*types.Token, adaptive AdaptiveData, k int) ([]beam.Sequence, error) {
	return f.search.TopKSequences(tokens, adaptive, k, 0)
}

// Spans turns outcomes into names. A cont without a start opens a name.
func (f *Finder) Spans(tokens []*types.Token, outcomes []string) []types.Chunk {
	var names []types.Chunk
	start := -1
	var typ string

	flush := func(end int) {
		if start < 0 {
			return
		}
		names = append(names, f.newName(tokens, typ, start, end))
		start = -1
	}

	for i, out := range outcomes {
		t, kind := splitOutcome(out)
		switch kind {
		case Start:
			flush(i)
			start, typ = i, t
		case Continue:
			if start < 0 || t != typ {
				flush(i)
				start, typ = i, t
			}
		default:
			flush(i)
		}
	}
	flush(len(outcomes))
	return names
}

func (f *Finder) newName(tokens []*types.Token, typ string, start, end int) types.Chunk {
	if len(typ) == 0 {
		typ = f.defaultType
	}
	texts := make([]string, 0, end-start)
	for _, token := range tokens[start:end] {
		texts = append(texts, token.Text)
	}
	return types.Chunk{
		Span: types.Span{
			Begin: tokens[start].Begin,
			End:   tokens[end-1].End,
			Text:  strings.Join(texts, " "),
		},
		Type:       typ,
		TokenStart: start,
		TokenEnd:   end,
	}
}
