package s3client

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"text2phenotype.com/seqtag/logger"
)

// URIScheme prefixes resource locations that live in the bucket.
const URIScheme = "s3://"

const maxRetries = 4

var errNoSession = errors.New("no S3 session")

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

type EnvironmentConfig struct {
	BucketName  string `envconfig:"MDL_COMN_STORAGE_CONTAINER_NAME" required:"true"`
	T2PEnv      string `envconfig:"T2P_ENV" required:"true"`
	Region      string `envconfig:"MDL_COMN_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"MDL_COMN_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"MDL_COMN_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"MDL_COMN_AWS_ACCESS_KEY" default:""`
}

// Client reads and writes objects of one bucket. The session is shared by
// all requests and replaced once when a request fails with it.
type Client struct {
	env EnvironmentConfig

	mu   sync.RWMutex
	sess *session.Session
	// newSession is swapped in tests
	newSession func() (*session.Session, error)
}

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Caller().Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := &Client{env: env}
	client.newSession = client.acquireSession
	if err := client.refresh(nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Upload stores a JSON document under key.
func (client *Client) Upload(data string, key string) (*s3manager.UploadOutput, error) {
	var output *s3manager.UploadOutput
	err := client.withSession(func(sess *session.Session) error {
		uploader := s3manager.NewUploader(client.sdkSession(sess, key))
		clientLogger.Debug().Str("key", key).Str("bucket", client.env.BucketName).Msg("Uploading the file")

		var err error
		output, err = uploader.Upload(&s3manager.UploadInput{
			Bucket:      aws.String(client.env.BucketName),
			Key:         aws.String(key),
			Body:        strings.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		return err
	})
	return output, err
}

func (client *Client) Download(key string) ([]byte, error) {
	var res []byte
	err := client.withSession(func(sess *session.Session) error {
		reqLogger := clientLogger.With().Str("key", key).Str("bucket", client.env.BucketName).Logger()
		downloader := s3manager.NewDownloader(client.sdkSession(sess, key))
		buf := aws.NewWriteAtBuffer([]byte{})

		reqLogger.Debug().Msg("Downloading file")
		size, err := downloader.Download(buf, &s3.GetObjectInput{
			Bucket: aws.String(client.env.BucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			reqLogger.Error().Err(err).Msg("Failed to download file")
			return err
		}
		reqLogger.Debug().Int64("size", size).Msg("Downloaded file")
		res = buf.Bytes()
		return nil
	})
	return res, err
}

// IsURI reports whether location points into the bucket.
func IsURI(location string) bool {
	return strings.HasPrefix(location, URIScheme)
}

// DownloadURI downloads an s3://key location from the client bucket.
func (client *Client) DownloadURI(location string) ([]byte, error) {
	if !IsURI(location) {
		return nil, fmt.Errorf("%q is not an %s location", location, URIScheme)
	}
	return client.Download(strings.TrimPrefix(location, URIScheme))
}

// Close drops the session, later requests acquire a new one.
func (client *Client) Close() {
	client.mu.Lock()
	client.sess = nil
	client.mu.Unlock()
	clientLogger.Info().Msg("Closing client")
}

// withSession runs op and, when it fails, runs it once more with a fresh
// session.
func (client *Client) withSession(op func(sess *session.Session) error) error {
	client.mu.RLock()
	sess := client.sess
	client.mu.RUnlock()

	if sess != nil {
		err := op(sess)
		if err == nil {
			return nil
		}
		clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
	}
	if err := client.refresh(sess); err != nil {
		return err
	}

	client.mu.RLock()
	sess = client.sess
	client.mu.RUnlock()
	return op(sess)
}

// refresh replaces the session unless another request already replaced
// stale.
func (client *Client) refresh(stale *session.Session) error {
	client.mu.Lock()
	defer client.mu.Unlock()

	if client.sess != nil && client.sess != stale {
		return nil
	}
	sess, err := client.newSession()
	if err != nil {
		client.sess = nil
		clientLogger.Error().Err(err).Msg("Caught error while refreshing S3 session")
		return err
	}
	if sess == nil {
		return errNoSession
	}
	client.sess = sess
	return nil
}

func (client *Client) sdkSession(sess *session.Session, key string) *session.Session {
	sdkLog := sdkLogger.With().Str("key", key).Str("bucket", client.env.BucketName).Logger()
	return sess.Copy(&aws.Config{Logger: &s3Logger{sdkLog}})
}

// acquireSession tries the instance role first and the credentials from the
// environment second. A session is only used once STS accepts it.
func (client *Client) acquireSession() (*session.Session, error) {
	for _, candidate := range client.sessionConfigs() {
		sess, err := session.NewSession(candidate.cfg)
		if err != nil {
			clientLogger.Error().Err(err).Str("credentials", candidate.name).Msg("Could not initialize S3 session")
			continue
		}
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
			clientLogger.Info().Err(err).Str("credentials", candidate.name).Msg("Could not verify S3 session")
			continue
		}
		clientLogger.Info().Str("credentials", candidate.name).Msg("S3 session successfully initialized")
		return sess, nil
	}
	return nil, errors.New("could not initialize S3 session")
}

type sessionConfig struct {
	name string
	cfg  *aws.Config
}

func (client *Client) sessionConfigs() []sessionConfig {
	configs := []sessionConfig{{
		name: "ec2",
		cfg: aws.NewConfig().
			WithRegion(client.env.Region).
			WithMaxRetries(maxRetries).
			WithLogLevel(aws.LogDebug),
	}}
	if len(client.env.AccessKeyID) == 0 || len(client.env.AccessKey) == 0 {
		return configs
	}

	cfg := aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(maxRetries).
		WithCredentials(credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")).
		WithLogLevel(aws.LogDebug)
	if client.env.T2PEnv == "dev" && len(client.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return append(configs, sessionConfig{name: "env", cfg: cfg})
}

// s3Logger forwards SDK logs to zerolog at debug level.
type s3Logger struct {
	log zerolog.Logger
}

func (l *s3Logger) Log(v ...interface{}) {
	l.log.Debug().Msg(fmt.Sprint(v...))
}
