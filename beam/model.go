package beam

// Model is a locally normalized classifier over a fixed outcome vocabulary.
type Model interface {
	NumOutcomes() int
	Outcome(i int) string
	// Eval returns one probability per outcome index.
	Eval(context []string) []float64
}

// ContextGenerator builds the features for position index. priorDecisions
// holds the outcomes of positions before index only.
type ContextGenerator[T any] interface {
	GetContext(index int, sequence []T, priorDecisions []string, additionalContext interface{}) []string
}

// ScopedContextGenerator is implemented by generators that keep caches. The
// search asks for a fresh scope at the start of every call so no cache is
// shared between unrelated sequences.
type ScopedContextGenerator[T any] interface {
	ContextGenerator[T]
	NewScope() ContextGenerator[T]
}

type ContextGeneratorFunc[T any] func(index int, sequence []T, priorDecisions []string, additionalContext interface{}) []string

func (f ContextGeneratorFunc[T]) GetContext(index int, sequence []T, priorDecisions []string, additionalContext interface{}) []string {
	return f(index, sequence, priorDecisions, additionalContext)
}
