package chunker

import (
	"strings"

	"text2phenotype.com/seqtag/types"
)

const (
	Begin  = "B-"
	Inside = "I-"
	Other  = "O"
)

// Validator enforces the BIO scheme: I-X must continue a B-X or I-X chunk.
type Validator struct{}

func (Validator) ValidSequence(i int, _ []*types.Token, priorOutcomes []string, outcome string) bool {
	if !strings.HasPrefix(outcome, Inside) {
		return true
	}
	if i == 0 {
		return false
	}
	prev := priorOutcomes[i-1]
	if prev == Other {
		return false
	}
	return chunkType(prev) == chunkType(outcome)
}

func chunkType(outcome string) string {
	if len(outcome) > 2 && (strings.HasPrefix(outcome, Begin) || strings.HasPrefix(outcome, Inside)) {
		return outcome[2:]
	}
	return ""
}
