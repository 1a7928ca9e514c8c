package pipeline

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"text2phenotype.com/seqtag/beam"
	"text2phenotype.com/seqtag/chunker"
	"text2phenotype.com/seqtag/logger"
	"text2phenotype.com/seqtag/namefind"
	"text2phenotype.com/seqtag/postag"
	"text2phenotype.com/seqtag/types"
)

// annotator runs the taggers of one configuration.
type annotator struct {
	name         string
	pos          *postag.Tagger
	alternatives int
	chunker      *chunker.Chunker
	finders      []*namefind.Finder
}

func newAnnotator(cfg types.Configuration, resources *Resources) (*annotator, error) {
	searchLogger := logger.NewLogger("BeamSearch").With().Str("config_name", cfg.Name).Logger()
	opts := []beam.Option{
		beam.WithLenientEval(cfg.LenientEval),
		beam.WithLogger(searchLogger),
	}

	posModel, err := resources.Model(cfg.POS.Model)
	if err != nil {
		return nil, err
	}
	var dict *postag.DictionaryValidator
	if len(cfg.POS.TagDictionary) > 0 {
		if dict, err = resources.TagDictionary(cfg.POS.TagDictionary); err != nil {
			return nil, err
		}
	}
	pos, err := postag.New(posModel, cfg.POS.BeamSize, dict, opts...)
	if err != nil {
		return nil, err
	}

	a := annotator{
		name:         cfg.Name,
		pos:          pos,
		alternatives: cfg.POS.Alternatives,
	}

	if cfg.Chunker != nil {
		m, err := resources.Model(cfg.Chunker.Model)
		if err != nil {
			return nil, err
		}
		if a.chunker, err = chunker.New(m, cfg.Chunker.BeamSize, opts...); err != nil {
			return nil, err
		}
	}

	for _, finderCfg := range cfg.NameFinders {
		m, err := resources.Model(finderCfg.Model)
		if err != nil {
			return nil, err
		}
		finder, err := namefind.New(m, finderCfg.BeamSize, finderCfg.Type, opts...)
		if err != nil {
			return nil, err
		}
		a.finders = append(a.finders, finder)
	}
	return &a, nil
}

// tag assigns POS tags and chunks, sentences are processed concurrently.
func (a *annotator) tag(in <-chan types.Sentence, reqLogger *zerolog.Logger) <-chan types.Sentence {
	out := make(chan types.Sentence)
	stageLogger := reqLogger.With().Str("config_name", a.name).Logger()

	go func() {
		defer close(out)
		var wg sync.WaitGroup
		for sent := range in {
			wg.Add(1)
			go func(sent types.Sentence) {
				defer wg.Done()
				if err := a.tagSentence(&sent); err != nil {
					stageLogger.Err(err).Int("sentence", sent.Index).Msg("Failed to tag sentence")
					sent.Failed = true
				}
				out <- sent
			}(sent)
		}
		wg.Wait()
	}()
	return out
}

func (a *annotator) tagSentence(sent *types.Sentence) error {
	if len(sent.Tokens) == 0 {
		return nil
	}

	if a.alternatives > 0 {
		seqs, err := a.pos.TopK(sent.Tokens, a.alternatives)
		if err != nil {
			return err
		}
		for _, seq := range seqs {
			sent.Alternatives = append(sent.Alternatives, types.Alternative{
				Tags:  seq.Outcomes(),
				Score: seq.Score(),
			})
		}
		setTags(sent, seqs[0].Outcomes())
	} else {
		tags, err := a.pos.Tag(sent.Tokens)
		if err != nil {
			return err
		}
		setTags(sent, tags)
	}

	if a.chunker == nil {
		return nil
	}
	outcomes, err := a.chunker.Chunk(sent.Tokens, types.Tags(sent.Tokens))
	if err != nil {
		return err
	}
	for i, out := range outcomes {
		sent.Tokens[i].Chunk = out
	}
	sent.Chunks = chunker.Spans(sent.Tokens, outcomes)
	return nil
}

func setTags(sent *types.Sentence, tags []string) {
	for i, tag := range tags {
		sent.Tokens[i].Tag = tag
	}
}

// findNames runs the name finders sentence after sentence in document order,
// so the adaptive data of a finder only holds outcomes of earlier sentences of
// this request.
func (a *annotator) findNames(in <-chan types.Sentence, reqLogger *zerolog.Logger) <-chan types.Sentence {
	if len(a.finders) == 0 {
		return in
	}
	out := make(chan types.Sentence)
	stageLogger := reqLogger.With().Str("config_name", a.name).Logger()

	go func() {
		defer close(out)
		adaptive := make([]namefind.AdaptiveData, len(a.finders))
		for i := range adaptive {
			adaptive[i] = namefind.AdaptiveData{}
		}

		for sent := range inIndexOrder(in) {
			if !sent.Failed && len(sent.Tokens) > 0 {
				for i, finder := range a.finders {
					names, err := finder.Find(sent.Tokens, adaptive[i])
					if err != nil {
						stageLogger.Err(err).Int("sentence", sent.Index).Msg("Failed to find names")
						sent.Failed = true
						break
					}
					for _, name := range names {
						for _, token := range sent.Tokens[name.TokenStart:name.TokenEnd] {
							token.Name = name.Type
						}
					}
					sent.Names = append(sent.Names, names...)
				}
			}
			out <- sent
		}
	}()
	return out
}

// inIndexOrder releases sentences by ascending Index, starting at 0. The
// stages before it run sentences concurrently and deliver them in any order.
func inIndexOrder(in <-chan types.Sentence) <-chan types.Sentence {
	out := make(chan types.Sentence)
	go func() {
		defer close(out)
		pending := make(map[int]types.Sentence)
		next := 0
		for sent := range in {
			pending[sent.Index] = sent
			for {
				ready, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				out <- ready
			}
		}

		// gaps in the numbering, release the rest in order
		rest := make([]types.Sentence, 0, len(pending))
		for _, sent := range pending {
			rest = append(rest, sent)
		}
		sort.Slice(rest, func(i, j int) bool {
			return rest[i].Index < rest[j].Index
		})
		for _, sent := range rest {
			out <- sent
		}
	}()
	return out
}
