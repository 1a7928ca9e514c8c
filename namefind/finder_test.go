package namefind

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

func testFinder(t *testing.T) *Finder {
	m, err := maxent.Build([]string{"other", "person-start", "person-cont"}, map[string]map[string]float64{
		"wc=ic":           {"person-start": 2},
		"po=person-start": {"person-cont": 3},
		"wc=lc":           {"other": 3},
	})
	require.NoError(t, err)

	f, err := New(m, 3, "name", beam.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return f
}

func TestFind(t *testing.T) {
	f := testFinder(t)
	adaptive := AdaptiveData{}

	names, err := f.Find(tokens("John", "Smith", "runs"), adaptive)
	require.NoError(t, err)

	want := []types.Chunk{{
		Span:       types.Span{Begin: 0, End: 10, Text: "John Smith"},
		Type:       "person",
		TokenStart: 0,
		TokenEnd:   2,
	}}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, AdaptiveData{"John": "person-start", "Smith": "person-cont", "runs": "other"}, adaptive)

	ctx := ContextGenerator{}.GetContext(0, tokens("Smith"), nil, adaptive)
	require.Contains(t, ctx, "pd=person-cont")
}

func TestFindWithoutAdaptiveData(t *testing.T) {
	f := testFinder(t)
	names, err := f.Find(tokens("he", "runs"), nil)
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestFindTopKNeverStartsWithContinue(t *testing.T) {
	f := testFinder(t)
	seqs, err := f.TopK(tokens("John", "Smith"), nil, 3)
	require.NoError(t, err)
	require.NotEmpty(t, seqs)
	require.Equal(t, []string{"person-start", "person-cont"}, seqs[0].Outcomes())
	for _, seq := range seqs {
		require.NotEqual(t, "person-cont", seq.Outcome(0))
	}
}

func TestSpansUseDefaultType(t *testing.T) {
	f := &Finder{defaultType: "drug"}
	names := f.Spans(tokens("a", "b", "c", "d"), []string{"start", "cont", "other", "start"})
	require.Len(t, names, 2)
	require.Equal(t, "drug", names[0].Type)
	require.Equal(t, "a b", names[0].Text)
	require.Equal(t, 3, names[1].TokenStart)
	require.Equal(t, 4, names[1].TokenEnd)
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		i       int
		prior   []string
		outcome string
		valid   bool
	}{
		{"start first", 0, nil, "start", true},
		{"cont first", 0, nil, "cont", false},
		{"cont after start", 1, []string{"start"}, "cont", true},
		{"cont after other", 1, []string{"other"}, "cont", false},
		{"typed cont after typed start", 1, []string{"person-start"}, "person-cont", true},
		{"typed cont after typed cont", 2, []string{"person-start", "person-cont"}, "person-cont", true},
		{"typed cont changes type", 1, []string{"org-start"}, "person-cont", false},
		{"untyped cont after typed start", 1, []string{"person-start"}, "cont", false},
		{"other anywhere", 1, []string{"other"}, "other", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, Validator{}.ValidSequence(tt.i, nil, tt.prior, tt.outcome))
		})
	}
}

func TestTokenClass(t *testing.T) {
	for txt, class := range map[string]string{
		"":      "other",
		"smith": "lc",
		"Smith": "ic",
		"IBM":   "ac",
		"A":     "sc",
		"42":    "2d",
		"1999":  "4d",
		"12345": "num",
		"A4":    "an",
		"3.5":   "dd",
		".":     "other",
	} {
		require.Equal(t, class, TokenClass(txt), txt)
	}
}
