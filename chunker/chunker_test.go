package chunker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqtag/beam"
	"text2phenotype.com/seqtag/maxent"
	"text2phenotype.com/seqtag/types"
)

func tokens(words ...string) []*types.Token {
	res := make([]*types.Token, len(words))
	var offset int32
	for i, w := range words {
		res[i] = types.NewToken(w, offset)
		offset = res[i].End + 1
	}
	return res
}

func testChunker(t *testing.T) *Chunker {
	m, err := maxent.Build([]string{"B-NP", "I-NP", "B-VP", "O"}, map[string]map[string]float64{
		"t0=DT":    {"B-NP": 3},
		"t0=NN":    {"I-NP": 1, "B-NP": 0.5},
		"c-1=B-NP": {"I-NP": 2},
		"t0=VB":    {"B-VP": 3},
		"t0=.":     {"O": 3},
	})
	require.NoError(t, err)

	c, err := New(m, 2, beam.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return c
}

func TestChunk(t *testing.T) {
	c := testChunker(t)
	toks := tokens("the", "dog", "runs", ".")

	outcomes, err := c.Chunk(toks, []string{"DT", "NN", "VB", "."})
	require.NoError(t, err)
	require.Equal(t, []string{"B-NP", "I-NP", "B-VP", "O"}, outcomes)

	want := []types.Chunk{
		{Span: types.Span{Begin: 0, End: 7, Text: "the dog"}, Type: "NP", TokenStart: 0, TokenEnd: 2},
		{Span: types.Span{Begin: 8, End: 12, Text: "runs"}, Type: "VP", TokenStart: 2, TokenEnd: 3},
	}
	if diff := cmp.Diff(want, Spans(toks, outcomes)); diff != "" {
		t.Errorf("Spans() mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkRejectsMisalignedTags(t *testing.T) {
	c := testChunker(t)
	_, err := c.Chunk(tokens("the", "dog"), []string{"DT"})
	require.Error(t, err)
	_, err = c.TopK(tokens("the", "dog"), nil, 2)
	require.Error(t, err)
}

func TestChunkTopK(t *testing.T) {
	c := testChunker(t)
	seqs, err := c.TopK(tokens("the", "dog"), []string{"DT", "NN"}, 5)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	require.Equal(t, []string{"B-NP", "I-NP"}, seqs[0].Outcomes())
	for _, seq := range seqs {
		require.NotEqual(t, "I-NP", seq.Outcome(0))
	}
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		i       int
		prior   []string
		outcome string
		valid   bool
	}{
		{"begin first", 0, nil, "B-NP", true},
		{"other first", 0, nil, "O", true},
		{"inside first", 0, nil, "I-NP", false},
		{"inside after begin", 1, []string{"B-NP"}, "I-NP", true},
		{"inside after inside", 2, []string{"B-NP", "I-NP"}, "I-NP", true},
		{"inside after other", 1, []string{"O"}, "I-NP", false},
		{"inside changes type", 1, []string{"B-VP"}, "I-NP", false},
		{"begin after inside", 2, []string{"B-NP", "I-NP"}, "B-VP", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, Validator{}.ValidSequence(tt.i, nil, tt.prior, tt.outcome))
		})
	}
}

func TestSpansRecoverFromStrayInside(t *testing.T) {
	toks := tokens("a", "b", "c", "d", "e", "f", "g")
	chunks := Spans(toks, []string{"B-NP", "I-NP", "O", "I-VP", "I-VP", "B-NP", "I-PP"})

	type bounds struct {
		Type       string
		Start, End int
	}
	got := make([]bounds, len(chunks))
	for i, c := range chunks {
		got[i] = bounds{c.Type, c.TokenStart, c.TokenEnd}
	}
	require.Equal(t, []bounds{{"NP", 0, 2}, {"VP", 3, 5}, {"NP", 5, 6}, {"PP", 6, 7}}, got)
	require.Equal(t, "d e", chunks[1].Text)
}

func TestContextUsesWindowAndPriorDecisions(t *testing.T) {
	toks := tokens("The", "dog")
	ctx := ContextGenerator{}.GetContext(1, toks, []string{"B-NP"}, []string{"DT", "NN"})
	require.Contains(t, ctx, "w0=dog")
	require.Contains(t, ctx, "w-1=the")
	require.Contains(t, ctx, "t-2=bos")
	require.Contains(t, ctx, "c-1=B-NP")
	require.Contains(t, ctx, "c-2c-1=bos|B-NP")
	require.Contains(t, ctx, "t1=bos")

	// missing tags degrade to boundary features
	ctx = ContextGenerator{}.GetContext(0, toks, nil, nil)
	require.Contains(t, ctx, "t0=bos")
}
