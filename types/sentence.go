package types

type Sentence struct {
	Span
	Index  int
	Tokens []*Token
	Chunks []Chunk
	Names  []Chunk
	// POS alternatives when top-K tagging is requested.
	Alternatives []Alternative
	// Set when a tagger could not label the sentence.
	Failed bool
}

// Clone copies the sentence and its tokens so another stage can annotate it
// independently.
func (sent Sentence) Clone() Sentence {
	res := sent
	res.Tokens = make([]*Token, len(sent.Tokens))
	for i, token := range sent.Tokens {
		t := *token
		res.Tokens[i] = &t
	}
	res.Chunks = append([]Chunk(nil), sent.Chunks...)
	res.Names = append([]Chunk(nil), sent.Names...)
	res.Alternatives = append([]Alternative(nil), sent.Alternatives...)
	return res
}

// Chunk covers tokens [TokenStart, TokenEnd) of its sentence.
type Chunk struct {
	Span
	Type       string `json:"type"`
	TokenStart int    `json:"token_start"`
	TokenEnd   int    `json:"token_end"`
}

type Alternative struct {
	Tags  []string `json:"tags"`
	Score float64  `json:"score"`
}
