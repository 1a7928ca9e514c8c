package pipeline

import (
	"sort"

	"text2phenotype.com/seqtag/types"
)

func NewResponseBuilder(configName string, request Request) func(in <-chan types.Sentence) <-chan Result {
	return func(in <-chan types.Sentence) <-chan Result {
		out := make(chan Result)
		go func() {
			defer close(out)
			var sentences []types.Sentence
			for sent := range in {
				sentences = append(sentences, sent)
			}
			sort.Slice(sentences, func(i, j int) bool {
				return sentences[i].Index < sentences[j].Index
			})

			response := types.TagResponse{
				DocId:     request.Tid,
				Sentences: make([]types.SentenceResponse, 0, len(sentences)),
			}
			for i := range sentences {
				if sentences[i].Failed {
					response.Failed = append(response.Failed, sentences[i].Index)
				}
				response.Sentences = append(response.Sentences, types.NewSentenceResponse(&sentences[i]))
			}
			out <- Result{ConfigName: configName, Data: response}
		}()
		return out
	}
}
