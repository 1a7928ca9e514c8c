// Package beam implements a top-K beam search decoder for sequence labeling
// with a locally normalized classifier. Per-step probabilities are multiplied
// along a hypothesis, and only the best Size hypotheses survive each step.
package beam

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"text2phenotype.com/seqtag/logger"
)

const defaultTolerance = 1e-3

type options struct {
	tolerance float64
	lenient   bool
	logger    *zerolog.Logger
}

type Option func(*options)

// WithTolerance sets how far a distribution sum may drift from 1.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		o.tolerance = eps
	}
}

// WithLenientEval makes the search clamp and renormalize malformed
// distributions with a warning instead of failing.
func WithLenientEval(lenient bool) Option {
	return func(o *options) {
		o.lenient = lenient
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}

// Search is safe for concurrent use as long as the model and the context
// generator are.
type Search[T any] struct {
	model      Model
	contextGen ContextGenerator[T]
	validator  SequenceValidator[T]
	size       int
	tolerance  float64
	lenient    bool
	logger     zerolog.Logger
}

// New creates a search of the given beam size. A nil validator accepts every
// outcome.
func New[T any](model Model, contextGen ContextGenerator[T], validator SequenceValidator[T], size int, opts ...Option) (*Search[T], error) {
	if model == nil || contextGen == nil {
		return nil, ErrNilModel
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBeamSize, size)
	}
	if model.NumOutcomes() < 1 {
		return nil, ErrNoOutcomes
	}

	o := options{tolerance: defaultTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logger.NewLogger("BeamSearch")
		o.logger = &l
	}
	if validator == nil {
		validator = AnyOutcome[T]{}
	}

	return &Search[T]{
		model:      model,
		contextGen: contextGen,
		validator:  validator,
		size:       size,
		tolerance:  o.tolerance,
		lenient:    o.lenient,
		logger:     *o.logger,
	}, nil
}

func (s *Search[T]) Size() int {
	return s.size
}

// BestSequence returns the highest scoring complete hypothesis. An empty
// input yields the empty hypothesis.
func (s *Search[T]) BestSequence(sequence []T, additionalContext interface{}) (Sequence, error) {
	seqs, err := s.search(sequence, additionalContext)
	if err != nil {
		return Sequence{}, err
	}
	return seqs[0], nil
}

// TopKSequences returns up to k complete hypotheses, best first, whose score
// is at least minScore. At most Size hypotheses are ever available.
func (s *Search[T]) TopKSequences(sequence []T, additionalContext interface{}, k int, minScore float64) ([]Sequence, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	seqs, err := s.search(sequence, additionalContext)
	if err != nil {
		return nil, err
	}

	res := make([]Sequence, 0, k)
	for _, seq := range seqs {
		if len(res) == k {
			break
		}
		if seq.Score() < minScore {
			continue
		}
		res = append(res, seq)
	}
	return res, nil
}

func (s *Search[T]) search(sequence []T, additionalContext interface{}) ([]Sequence, error) {
	contextGen := s.contextGen
	if scoped, ok := contextGen.(ScopedContextGenerator[T]); ok {
		contextGen = scoped.NewScope()
	}

	prev := []Sequence{NewSequence()}
	for i := 0; i < len(sequence); i++ {
		next := newFrontier(s.size)

		for _, top := range prev {
			outcomes := top.Outcomes()
			contexts := contextGen.GetContext(i, sequence, outcomes, additionalContext)
			scores, err := s.eval(i, contexts)
			if err != nil {
				return nil, err
			}

			min := cutoff(scores, s.size)
			for p := 0; p < len(scores); p++ {
				if scores[p] < min {
					continue
				}
				if err := s.expand(next, i, sequence, top, outcomes, p, scores[p]); err != nil {
					return nil, err
				}
			}

			// nothing above the cutoff was valid, give every valid outcome a chance
			if next.Len() == 0 {
				for p := 0; p < len(scores); p++ {
					if err := s.expand(next, i, sequence, top, outcomes, p, scores[p]); err != nil {
						return nil, err
					}
				}
			}
		}

		if next.Len() == 0 {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyBeam, i)
		}
		prev = next.ranked()

		s.logger.Debug().
			Int("position", i).
			Int("frontier", len(prev)).
			Float64("best_score", prev[0].Score()).
			Msg("Advanced beam")
	}

	return prev, nil
}

func (s *Search[T]) expand(next *frontier, i int, sequence []T, top Sequence, outcomes []string, p int, prob float64) error {
	out := s.model.Outcome(p)
	if !s.validator.ValidSequence(i, sequence, outcomes, out) {
		return nil
	}
	ns, err := top.Extend(out, prob)
	if err != nil {
		return fmt.Errorf("position %d: %w", i, err)
	}
	next.add(ns)
	return nil
}

func (s *Search[T]) eval(i int, contexts []string) ([]float64, error) {
	scores := s.model.Eval(contexts)
	if n := s.model.NumOutcomes(); len(scores) != n {
		return nil, fmt.Errorf("%w: got %d, want %d at position %d", ErrOutcomeCountMismatch, len(scores), n, i)
	}

	sum := 0.0
	inRange := true
	for _, score := range scores {
		if math.IsNaN(score) || score < 0 || score > 1 {
			inRange = false
			continue
		}
		sum += score
	}
	normalized := math.Abs(sum-1) <= s.tolerance
	if inRange && normalized {
		return scores, nil
	}

	if !s.lenient {
		if !inRange {
			return nil, fmt.Errorf("%w at position %d: %v", ErrInvalidProbability, i, scores)
		}
		return nil, fmt.Errorf("%w at position %d: sum is %v", ErrNotNormalized, i, sum)
	}
	return s.renormalize(i, scores)
}

func (s *Search[T]) renormalize(i int, scores []float64) ([]float64, error) {
	fixed := make([]float64, len(scores))
	sum := 0.0
	for p, score := range scores {
		switch {
		case math.IsNaN(score) || score < 0:
			fixed[p] = 0
		case score > 1:
			fixed[p] = 1
		default:
			fixed[p] = score
		}
		sum += fixed[p]
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w at position %d: all probabilities are zero", ErrNotNormalized, i)
	}
	for p := range fixed {
		fixed[p] /= sum
	}

	s.logger.Warn().
		Int("position", i).
		Floats64("scores", scores).
		Msg("Model returned malformed distribution, renormalized")
	return fixed, nil
}

// cutoff returns the size-th largest score, or the smallest one when there
// are fewer outcomes than size.
func cutoff(scores []float64, size int) float64 {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	idx := len(sorted) - size
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
