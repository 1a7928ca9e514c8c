package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/seqtag/maxent"
)

func writeModel(t *testing.T, dir, name string, outcomes []string, weights map[string]map[string]float64) {
	m, err := maxent.Build(outcomes, weights)
	require.NoError(t, err)
	buf, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf, 0o644))
}

// writeModels stores small POS, chunk and name models that tag simple
// English sentences.
func writeModels(t *testing.T, dir string) {
	writeModel(t, dir, "pos.json", []string{"DT", "NN", "NNP", "VB", "."}, map[string]map[string]float64{
		"c":      {"NNP": 2},
		"w=The":  {"DT": 5},
		"w=the":  {"DT": 5},
		"w=dog":  {"NN": 3},
		"w=runs": {"VB": 3},
		"w=.":    {".": 5},
	})
	writeModel(t, dir, "chunk.json", []string{"B-NP", "I-NP", "B-VP", "O"}, map[string]map[string]float64{
		"t0=DT":    {"B-NP": 3},
		"t0=NNP":   {"B-NP": 2},
		"c-1=B-NP": {"I-NP": 3},
		"t0=NN":    {"I-NP": 1},
		"t0=VB":    {"B-VP": 4},
		"t0=.":     {"O": 4},
	})
	writeModel(t, dir, "name.json", []string{"other", "person-start", "person-cont"}, map[string]map[string]float64{
		"wc=ic":           {"person-start": 2},
		"po=person-start": {"person-cont": 3},
		"wc=lc":           {"other": 3},
		"wc=other":        {"other": 3},
		"w=the":           {"other": 4},
	})
}
