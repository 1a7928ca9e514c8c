package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int
type ReleaseLock func() error

// Nil is returned when a key does not exist.
const Nil = redis.Nil

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"MDL_COMN_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"MDL_COMN_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"MDL_COMN_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"MDL_COMN_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"MDL_COMN_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"MDL_COMN_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"MDL_COMN_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"MDL_COMN_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"MDL_COMN_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	cfg, err := readEnvironment()
	if err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = createFailoverClient(cfg, db)
	} else {
		client = createClient(cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

func createFailoverClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(float64(cfg.HASentinelSocketTimeout) * float64(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func createClient(cfg *Config, db DB) *redis.Client {
	options := redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// GetPartialDocument decodes the fields of doc from the JSON stored at
// redisKey. Fields doc does not declare are ignored.
func (client *Client) GetPartialDocument(redisKey string, doc interface{}) error {
	raw, err := client.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, doc)
}

// UpdatePartialDocument reads doc under a lock, applies update and writes the
// result back as a merge patch, so fields owned by other services survive.
func (client *Client) UpdatePartialDocument(redisKey string, doc interface{}, update func() error) (err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := releaseLock(); err == nil {
			err = rerr
		}
	}()

	raw, err := client.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		return err
	}
	if err = json.Unmarshal(raw, doc); err != nil {
		return err
	}
	if err = update(); err != nil {
		return err
	}
	merged, err := MergeDocument(raw, doc)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, redisKey, merged, 0).Err()
}

// SaveDoc merges doc into the document stored at redisKey, creating it when
// missing.
func (client *Client) SaveDoc(redisKey string, doc interface{}) error {
	raw, err := client.client.Get(ctx, redisKey).Bytes()
	if err == Nil {
		raw = []byte("{}")
	} else if err != nil {
		return err
	}
	merged, err := MergeDocument(raw, doc)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, redisKey, merged, 0).Err()
}

func (client *Client) Get(redisKey string) ([]byte, error) {
	return client.client.Get(ctx, redisKey).Bytes()
}

func (client *Client) Set(redisKey string, value []byte, expiration time.Duration) error {
	return client.client.Set(ctx, redisKey, value, expiration).Err()
}

func (client *Client) Lock(redisKey string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) Close() error {
	return client.client.Close()
}

// MergeDocument applies the JSON encoding of doc to raw as a merge patch.
func MergeDocument(raw []byte, doc interface{}) ([]byte, error) {
	patch, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.MergePatch(raw, patch)
}

func readEnvironment() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
