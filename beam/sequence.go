package beam

import (
	"fmt"
	"math"
	"strings"
)

// Sequence is a partial or complete labeling hypothesis. Values are never
// mutated after construction; Extend always returns a fresh copy.
type Sequence struct {
	score    float64
	logScore float64
	outcomes []string
	probs    []float64
}

func NewSequence() Sequence {
	return Sequence{score: 1}
}

// Extend returns a child of seq with outcome appended.
func (seq Sequence) Extend(outcome string, prob float64) (Sequence, error) {
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return Sequence{}, fmt.Errorf("%w: %v for outcome %q", ErrInvalidProbability, prob, outcome)
	}

	var ns Sequence
	ns.outcomes = make([]string, len(seq.outcomes)+1)
	copy(ns.outcomes, seq.outcomes)
	ns.outcomes[len(ns.outcomes)-1] = outcome

	ns.probs = make([]float64, len(seq.probs)+1)
	copy(ns.probs, seq.probs)
	ns.probs[len(ns.probs)-1] = prob

	ns.score = seq.score * prob
	ns.logScore = seq.logScore + math.Log(prob)
	return ns, nil
}

func (seq Sequence) Score() float64 {
	return seq.score
}

// LogScore is the sum of the log probabilities. Ranking uses it so that long
// sequences keep their order after the product underflows.
func (seq Sequence) LogScore() float64 {
	return seq.logScore
}

func (seq Sequence) Len() int {
	return len(seq.outcomes)
}

func (seq Sequence) Outcome(i int) string {
	return seq.outcomes[i]
}

func (seq Sequence) Outcomes() []string {
	res := make([]string, len(seq.outcomes))
	copy(res, seq.outcomes)
	return res
}

func (seq Sequence) Probs() []float64 {
	res := make([]float64, len(seq.probs))
	copy(res, seq.probs)
	return res
}

// Compare orders by descending score: -1 when seq ranks ahead of o.
func (seq Sequence) Compare(o Sequence) int {
	switch {
	case seq.logScore > o.logScore:
		return -1
	case seq.logScore < o.logScore:
		return 1
	}
	return 0
}

func (seq Sequence) Less(o Sequence) bool {
	return seq.Compare(o) < 0
}

func (seq Sequence) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%g [", seq.score))
	for i, out := range seq.outcomes {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(fmt.Sprintf("%s:%.4g", out, seq.probs[i]))
	}
	sb.WriteRune(']')
	return sb.String()
}
