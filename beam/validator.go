package beam

// SequenceValidator decides whether outcome may follow priorOutcomes at
// position i. Implementations must be pure.
type SequenceValidator[T any] interface {
	ValidSequence(i int, inputSequence []T, priorOutcomes []string, outcome string) bool
}

type AnyOutcome[T any] struct{}

func (AnyOutcome[T]) ValidSequence(int, []T, []string, string) bool {
	return true
}

type ValidatorFunc[T any] func(i int, inputSequence []T, priorOutcomes []string, outcome string) bool

func (f ValidatorFunc[T]) ValidSequence(i int, inputSequence []T, priorOutcomes []string, outcome string) bool {
	return f(i, inputSequence, priorOutcomes, outcome)
}
