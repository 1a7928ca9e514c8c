// Package chunker groups tagged tokens into non-overlapping phrases using
// BIO labels.
package chunker

import (
	"fmt"
	"strings"

	"text2phenotype.com/seqtag/beam"
	"text2phenotype.com/seqtag/types"
)

type Chunker struct {
	search *beam.Search[*types.Token]
}

func New(model beam.Model, beamSize int, opts ...beam.Option) (*Chunker, error) {
	search, err := beam.New[*types.Token](model, ContextGenerator{}, Validator{}, beamSize, opts...)
	if err != nil {
		return nil, err
	}
	return &Chunker{search: search}, nil
}

// Chunk labels tokens given their POS tags.
func (c *Chunker) Chunk(tokens []*types.Token, tags []string) ([]string, error) {
	if len(tags) != len(tokens) {
		return nil, fmt.Errorf("chunker: %d tags for %d tokens", len(tags), len(tokens))
	}
	seq, err := c.search.BestSequence(tokens, tags)
	if err != nil {
		return nil, err
	}
	return seq.Outcomes(), nil
}

func (c *Chunker) TopK(tokens []*types.Token, tags []string, k int) ([]beam.Sequence, error) {
	if len(tags) != len(tokens) {
		return nil, fmt.Errorf("chunker: %d tags for %d tokens", len(tags), len(tokens))
	}
	return c.search.TopKSequences(tokens, tags, k, 0)
}

// Spans turns BIO outcomes into chunks. A stray I-X opens a new chunk.
func Spans(tokens []*types.Token, outcomes []string) []types.Chunk {
	var chunks []types.Chunk
	start := -1
	var typ string

	flush := func(end int) {
		if start < 0 {
			return
		}
		chunks = append(chunks, newChunk(tokens, typ, start, end))
		start = -1
	}

	for i, out := range outcomes {
		switch {
		case strings.HasPrefix(out, Begin):
			flush(i)
			start, typ = i, chunkType(out)
		case strings.HasPrefix(out, Inside):
			if start < 0 || chunkType(out) != typ {
				flush(i)
				start, typ = i, chunkType(out)
			}
		default:
			flush(i)
		}
	}
	flush(len(outcomes))
	return chunks
}

func newChunk(tokens []*types.Token, typ string, start, end int) types.Chunk {
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
