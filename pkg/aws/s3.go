package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	s3sdk "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/storage/s3/v2"
)

type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

type Object struct {
	Key          string
	LastModified time.Time
}

type S3 struct {
	bucket *s3.Storage
	cfg    Config
}

func NewS3Bucket(cfg Config) *S3 {
	storage := s3.New(s3.Config{
		Endpoint: cfg.Endpoint,
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Credentials: s3.Credentials{
			AccessKey:       cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket: storage,
		cfg:    cfg,
	}
}

// Upload stores data under key. Objects never expire.
func (s *S3) Upload(key string, data []byte) error {
	return s.bucket.Set(key, data, 0)
}

func (s *S3) Delete(key string) error {
	return s.bucket.Delete(key)
}

// List returns every object whose key starts with prefix.
func (s *S3) List(ctx context.Context, prefix string) ([]Object, error) {
	paginator := s3sdk.NewListObjectsV2Paginator(s.bucket.Conn(), &s3sdk.ListObjectsV2Input{
		Bucket: awssdk.String(s.cfg.Bucket),
		Prefix: awssdk.String(prefix),
	})

	var objects []Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing %s/%s: %w", s.cfg.Bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			o := Object{Key: awssdk.ToString(obj.Key)}
			if obj.LastModified != nil {
				o.LastModified = *obj.LastModified
			}
			objects = append(objects, o)
		}
	}
	return objects, nil
}

// PublicURL builds the address clients use to fetch key.
func (s *S3) PublicURL(key string) string {
	return PublicURL(s.cfg, key)
}

func PublicURL(cfg Config, key string) string {
	// MinIO and other S3-compatible endpoints: endpoint/bucket/key
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket, key)
	}

	if cfg.Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
	}

	return key
}
