package namefind

import (
	"strings"

	"text2phenotype.com/seqtag/types"
)

const (
	Start    = "start"
	Continue = "cont"
	Other    = "other"
)

// Validator enforces the start/cont/other scheme, where outcomes may carry a
// type prefix such as person-start.
type Validator struct{}

func (Validator) ValidSequence(i int, _ []*types.Token, priorOutcomes []string, outcome string) bool {
	typ, kind := splitOutcome(outcome)
	if kind != Continue {
		return true
	}
	if i == 0 {
		return false
	}
	prevType, prevKind := splitOutcome(priorOutcomes[i-1])
	if prevKind == Other {
		return false
	}
	return prevType == typ
}

// splitOutcome returns the type and the kind of an outcome, "person-cont"
// gives ("person", "cont").
func splitOutcome(outcome string) (string, string) {
	idx := strings.LastIndex(outcome, "-")
	if idx < 0 {
		return "", outcome
	}
	return outcome[:idx], outcome[idx+1:]
}
