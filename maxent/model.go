// Package maxent evaluates maximum entropy (GIS) models stored as JSON.
package maxent

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrNoOutcomes   = errors.New("maxent: model has no outcomes")
	ErrInvalidModel = errors.New("maxent: invalid model")
)

// Context holds the parameters of one predicate: Parameters[i] is the weight
// of the predicate for outcome Outcomes[i].
type Context struct {
	Outcomes   []int     `json:"outcomes"`
	Parameters []float64 `json:"parameters"`
}

type EvalParameters struct {
	Params        []Context `json:"params"`
	NumOfOutcomes int       `json:"numOfOutcomes"`
	// GIS correction feature, unused when CorrectionConstant is 0.
	CorrectionConstant float64 `json:"correctionConstant"`
	CorrectionParam    float64 `json:"correctionParam"`
}

type Model struct {
	Probs      []float64      `json:"probs"`
	Outcomes   []string       `json:"outcomes"`
	PMap       map[string]int `json:"pmap"`
	EvalParams EvalParameters `json:"evalParams"`

	outcomeIndex map[string]int
}

func (m *Model) NumOutcomes() int {
	return len(m.Outcomes)
}

func (m *Model) Outcome(i int) string {
	return m.Outcomes[i]
}

func (m *Model) Index(outcome string) (int, bool) {
	idx, ok := m.outcomeIndex[outcome]
	return idx, ok
}

// Eval returns the normalized distribution over outcomes for the active
// predicates in context. Unknown predicates are ignored.
func (m *Model) Eval(context []string) []float64 {
	numOutcomes := len(m.Outcomes)
	outsums := make([]float64, numOutcomes)
	copy(outsums, m.Probs)
	numFeats := make([]int, numOutcomes)

	params := m.EvalParams.Params
	for _, pred := range context {
		ci, ok := m.PMap[pred]
		if !ok {
			continue
		}

		predParam := params[ci]
		for ai, oid := range predParam.Outcomes {
			numFeats[oid]++
			outsums[oid] += predParam.Parameters[ai]
		}
	}

	if cc := m.EvalParams.CorrectionConstant; cc > 0 {
		for oid := range outsums {
			outsums[oid] /= cc
			outsums[oid] += (1 - float64(numFeats[oid])/cc) * m.EvalParams.CorrectionParam
		}
	}

	max := math.Inf(-1)
	for _, s := range outsums {
		if s > max {
			max = s
		}
	}

	normal := 0.0
	for oid := range outsums {
		outsums[oid] = math.Exp(outsums[oid] - max)
		normal += outsums[oid]
	}
	for oid := range outsums {
		outsums[oid] /= normal
	}

	return outsums
}

// BestOutcome returns the outcome with the highest probability in dist.
func (m *Model) BestOutcome(dist []float64) string {
	best := 0
	for i := 1; i < len(dist); i++ {
		if dist[i] > dist[best] {
			best = i
		}
	}
	return m.Outcomes[best]
}

// Validate checks the model shape and builds the outcome index. Loaders call
// it; models built by hand must call it before use.
func (m *Model) Validate() error {
	n := len(m.Outcomes)
	if n == 0 {
		return ErrNoOutcomes
	}
	if m.EvalParams.NumOfOutcomes == 0 {
		m.EvalParams.NumOfOutcomes = n
	}
	if m.EvalParams.NumOfOutcomes != n {
		return fmt.Errorf("%w: numOfOutcomes is %d, but %d outcomes are listed", ErrInvalidModel, m.EvalParams.NumOfOutcomes, n)
	}
	if len(m.Probs) > n {
		return fmt.Errorf("%w: %d priors for %d outcomes", ErrInvalidModel, len(m.Probs), n)
	}

	for pred, ci := range m.PMap {
		if ci < 0 || ci >= len(m.EvalParams.Params) {
			return fmt.Errorf("%w: predicate %q points to missing parameters %d", ErrInvalidModel, pred, ci)
		}
	}
	for ci, ctx := range m.EvalParams.Params {
		if len(ctx.Outcomes) != len(ctx.Parameters) {
			return fmt.Errorf("%w: parameters %d have %d outcomes and %d weights", ErrInvalidModel, ci, len(ctx.Outcomes), len(ctx.Parameters))
		}
		for _, oid := range ctx.Outcomes {
			if oid < 0 || oid >= n {
				return fmt.Errorf("%w: parameters %d reference outcome %d", ErrInvalidModel, ci, oid)
			}
		}
	}

	m.outcomeIndex = make(map[string]int, n)
	for i, out := range m.Outcomes {
		if _, dup := m.outcomeIndex[out]; dup {
			return fmt.Errorf("%w: duplicate outcome %q", ErrInvalidModel, out)
		}
		m.outcomeIndex[out] = i
	}
	return nil
}

// Build assembles a model from predicate weights per outcome name.
func Build(outcomes []string, weights map[string]map[string]float64) (*Model, error) {
	index := make(map[string]int, len(outcomes))
	for i, out := range outcomes {
		index[out] = i
	}

	preds := make([]string, 0, len(weights))
	for pred := range weights {
		preds = append(preds, pred)
	}
	sort.Strings(preds)

	m := Model{
		Outcomes: outcomes,
		PMap:     make(map[string]int, len(preds)),
		EvalParams: EvalParameters{
			Params:        make([]Context, len(preds)),
			NumOfOutcomes: len(outcomes),
		},
	}
	for ci, pred := range preds {
		ctx := &m.EvalParams.Params[ci]
		for _, out := range outcomes {
			w, ok := weights[pred][out]
			if !ok {
				continue
			}
			ctx.Outcomes = append(ctx.Outcomes, index[out])
			ctx.Parameters = append(ctx.Parameters, w)
		}
		for out := range weights[pred] {
			if _, ok := index[out]; !ok {
				return nil, fmt.Errorf("%w: predicate %q weights unknown outcome %q", ErrInvalidModel, pred, out)
			}
		}
		m.PMap[pred] = ci
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
