package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of *s3.Client the services use.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"STORAGE_BUCKET"`

	// AccessKey is the access key ID (required).
	AccessKey string `env:"STORAGE_ACCESS_KEY"`

	// SecretKey is the secret access key (required).
	SecretKey string `env:"STORAGE_SECRET_KEY"`

	// Endpoint is a custom endpoint URL for MinIO and other S3-compatible services.
	Endpoint string `env:"STORAGE_ENDPOINT"`

	// Region defaults to us-east-1.
	Region string `env:"STORAGE_REGION" envDefault:"us-east-1"`

	// PathStyle enables path-style addressing (required for MinIO).
	PathStyle bool `env:"STORAGE_PATH_STYLE"`
}

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// Enabled reports whether the config names a bucket.
func (c Config) Enabled() bool { return c.Bucket != "" }

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	return nil
}

// NewClient builds an S3 client with static credentials.
func NewClient(cfg Config) (*s3.Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	}), nil
}

// Healthcheck returns a readiness check that verifies bucket access.
func Healthcheck(client API, bucket string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
		if err != nil {
			return wrapS3Error(err, ErrUnavailable)
		}
		return nil
	}
}

var _ API = (*s3.Client)(nil)
