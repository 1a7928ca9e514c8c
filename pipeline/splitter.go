package pipeline

import (
	"sync"

	"text2phenotype.com/seqtag/types"
)

// NewSentenceChannelSplitter copies every sentence to n channels, each
// receiving its own clone.
func NewSentenceChannelSplitter(n int) func(in <-chan types.Sentence) []chan types.Sentence {
	return func(in <-chan types.Sentence) []chan types.Sentence {
		outs := make([]chan types.Sentence, n)
		for i := 0; i < n; i++ {
			outs[i] = make(chan types.Sentence)
		}

		go func() {
			defer closeAllChannels(outs)
			var wg sync.WaitGroup

			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					for _, out := range outs {
						out <- sent.Clone()
					}
				}(sent)
			}

			wg.Wait()
		}()
		return outs
	}
}

func closeAllChannels(outs []chan types.Sentence) {
	for _, out := range outs {
		close(out)
	}
}
