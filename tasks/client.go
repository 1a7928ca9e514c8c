package tasks

import (
	"fmt"
	"time"

	"text2phenotype.com/seqtag/redis"
)

type Client struct {
	Documents DocumentTasks
	Chunks    ChunkTasks
	Jobs      JobTasks
	Results   ResultCache
}

// NewClient is a preferred way for working with TaskInfos. Results expire
// after resultExpiration, 0 keeps them forever.
func NewClient(resultExpiration time.Duration) (Client, error) {
	docRedisClient, err := redis.NewClient(DocumentsDB)
	if err != nil {
		return Client{}, err
	}
	jobsRedisClient, err := redis.NewClient(JobsDB)
	if err != nil {
		return Client{}, err
	}
	chunksRedisClient, err := redis.NewClient(ChunksDB)
	if err != nil {
		return Client{}, err
	}
	resultsRedisClient, err := redis.NewClient(ResultsDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Documents: DocumentTasks{client: docRedisClient},
		Jobs:      JobTasks{client: jobsRedisClient},
		Chunks:    ChunkTasks{client: chunksRedisClient},
		Results:   ResultCache{client: resultsRedisClient, expiration: resultExpiration},
	}, nil
}

func (client *Client) Close() {
	_ = client.Chunks.client.Close()
	_ = client.Documents.client.Close()
	_ = client.Jobs.client.Close()
	_ = client.Results.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
