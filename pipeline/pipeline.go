package pipeline

import (
	"encoding/json"

	"text2phenotype.com/seqtag/logger"
	"text2phenotype.com/seqtag/types"
)

// Pipeline tags the request text and sends one JSON document, a map of
// configuration name to types.TagResponse. The channel is closed without a
// value when the response could not be built.
type Pipeline func(request Request) <-chan string

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
	// Configurations to run, all of them when empty.
	Configs []string `json:"configs,omitempty"`
}

type Result struct {
	ConfigName string
	Data       interface{}
}

// New loads the models of every configuration and builds the pipeline.
func New(configs []types.Configuration, resources *Resources) (Pipeline, error) {
	pplnLogger := logger.NewLogger("Tagging pipeline")
	errLogger := pplnLogger.With().Caller().Logger()

	annotators := make([]*annotator, 0, len(configs))
	for _, cfg := range configs {
		a, err := newAnnotator(cfg, resources)
		if err != nil {
			errLogger.Err(err).
				Str("config_name", cfg.Name).
				Str("config_file", cfg.FilePath).
				Msg("Failed to create taggers for configuration")
			return nil, err
		}
		annotators = append(annotators, a)
		pplnLogger.Info().Str("config_name", cfg.Name).Msg("Loaded configuration")
	}

	sentenceDetector := NewSentenceDetector()
	tokenizer := NewTokenizer()

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		reqLogger := pplnLogger.With().Str("tid", request.Tid).Logger()
		reqLogger.Info().Msg("Started tagging pipeline")

		go func() {
			defer close(responseChan)

			selected := selectAnnotators(annotators, request.Configs)

			in := make(chan string)
			tok := tokenizer(sentenceDetector(in))
			split := NewSentenceChannelSplitter(len(selected))(tok)

			resultChannel := make(chan Result)
			for i, a := range selected {
				tagged := a.findNames(a.tag(split[i], &reqLogger), &reqLogger)
				connect(NewResponseBuilder(a.name, request)(tagged), resultChannel)
			}

			in <- request.Text
			close(in)

			response := make(map[string]interface{}, len(selected))
			for i := 0; i < len(selected); i++ {
				res := <-resultChannel
				reqLogger.Info().
					Str("config_name", res.ConfigName).
					Msg("Finished pipeline for configuration")
				response[res.ConfigName] = res.Data
			}

			buf, err := json.Marshal(response)
			if err != nil {
				reqLogger.Err(err).Msg("Failed to marshal response")
				return
			}
			reqLogger.Info().Msg("Finished tagging pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}, nil
}

func selectAnnotators(annotators []*annotator, names []string) []*annotator {
	if len(names) == 0 {
		return annotators
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var res []*annotator
	for _, a := range annotators {
		if wanted[a.name] {
			res = append(res, a)
		}
	}
	return res
}

func connect(from <-chan Result, to chan<- Result) {
	go func() {
		for v := range from {
			to <- v
		}
	}()
}
