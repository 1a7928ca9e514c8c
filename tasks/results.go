package tasks

import (
	"fmt"
	"time"

	"text2phenotype.com/seqtag/redis"
	"text2phenotype.com/seqtag/utils"
)

const ResultsDB redis.DB = 3

// ResultCache keeps tagging results keyed by the text, the names of the
// configurations and the version of the models that produced them.
type ResultCache struct {
	client     redis.Client
	expiration time.Duration
}

func ResultKey(text []byte, configNames []string, modelsVersion string) string {
	parts := make([][]byte, 0, 2*len(configNames)+3)
	parts = append(parts, text)
	for _, name := range configNames {
		parts = append(parts, []byte{0}, []byte(name))
	}
	parts = append(parts, []byte{1}, []byte(modelsVersion))
	return fmt.Sprintf("seqtag-result:%016x", utils.HashBytes(parts...))
}

// Get returns the cached result, or false when there is none.
func (cache ResultCache) Get(key string) (string, bool, error) {
	buf, err := cache.client.Get(key)
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(buf), true, nil
}

func (cache ResultCache) Put(key string, result string) error {
	return cache.client.Set(key, []byte(result), cache.expiration)
}
