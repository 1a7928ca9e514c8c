package types

type TokenResponse struct {
	Span
	Tag   string `json:"tag"`
	Chunk string `json:"chunk,omitempty"`
	Name  string `json:"name,omitempty"`
}

type SentenceResponse struct {
	Span
	Tokens       []TokenResponse `json:"tokens"`
	Chunks       []Chunk         `json:"chunks,omitempty"`
	Names        []Chunk         `json:"names,omitempty"`
	Alternatives []Alternative   `json:"alternatives,omitempty"`
}

type TagResponse struct {
	DocId     string             `json:"docId"`
	Sentences []SentenceResponse `json:"sentences"`
	// Sentences the taggers could not label, by index.
	Failed []int `json:"failed,omitempty"`
}

func NewSentenceResponse(sent *Sentence) SentenceResponse {
	tokens := make([]TokenResponse, len(sent.Tokens))
	for i, token := range sent.Tokens {
		tokens[i] = TokenResponse{
			Span:  token.Span,
			Tag:   token.Tag,
			Chunk: token.Chunk,
			Name:  token.Name,
		}
	}
	return SentenceResponse{
		Span:         sent.Span,
		Tokens:       tokens,
		Chunks:       sent.Chunks,
		Names:        sent.Names,
		Alternatives: sent.Alternatives,
	}
}
