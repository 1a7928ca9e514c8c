package beam

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"
)

// tableModel returns a fixed distribution per joined context.
type tableModel struct {
	outcomes []string
	table    map[string][]float64
}

func (m *tableModel) NumOutcomes() int {
	return len(m.outcomes)
}

func (m *tableModel) Outcome(i int) string {
	return m.outcomes[i]
}

func (m *tableModel) Eval(context []string) []float64 {
	dist, ok := m.table[strings.Join(context, " ")]
	if !ok {
		panic(fmt.Sprintf("no distribution for context %v", context))
	}
	return dist
}

// prevContext exposes the position for the first item and the previous
// decision afterwards, like a first order tagger.
func prevContext(index int, _ []string, priorDecisions []string, _ interface{}) []string {
	if index == 0 {
		return []string{"pos=0"}
	}
	return []string{"prev=" + priorDecisions[index-1]}
}

// positionContext exposes both position and previous decision so every
// step can have its own distribution.
func positionContext(index int, _ []string, priorDecisions []string, _ interface{}) []string {
	if index == 0 {
		return []string{"i=0", "prev=*"}
	}
	return []string{fmt.Sprintf("i=%d", index), "prev=" + priorDecisions[index-1]}
}

// scenarioModel is the two-outcome first order model used across tests.
func scenarioModel() *tableModel {
	return &tableModel{
		outcomes: []string{"A", "B"},
		table: map[string][]float64{
			"pos=0":  {0.7, 0.3},
			"prev=A": {0.6, 0.4},
			"prev=B": {0.2, 0.8},
		},
	}
}

// randomModel draws a normalized distribution for every (position, previous
// outcome) pair reachable in sequences of the given length.
func randomModel(seed int64, outcomes []string, length int) *tableModel {
	rnd := rand.New(rand.NewSource(seed))
	m := &tableModel{outcomes: outcomes, table: make(map[string][]float64)}

	draw := func() []float64 {
		dist := make([]float64, len(outcomes))
		sum := 0.0
		for i := range dist {
			dist[i] = rnd.Float64() + 0.01
			sum += dist[i]
		}
		for i := range dist {
			dist[i] /= sum
		}
		return dist
	}

	m.table["i=0 prev=*"] = draw()
	for i := 1; i < length; i++ {
		for _, prev := range outcomes {
			m.table[fmt.Sprintf("i=%d prev=%s", i, prev)] = draw()
		}
	}
	return m
}

func items(n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = fmt.Sprintf("w%d", i)
	}
	return res
}

func newTestSearch(model Model, gen ContextGeneratorFunc[string], validator SequenceValidator[string], size int, opts ...Option) (*Search[string], error) {
	opts = append([]Option{WithLogger(nopLogger())}, opts...)
	return New[string](model, gen, validator, size, opts...)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
