package upload

import (
	"catalog/pkg/aws"
	"context"
	"strings"
)

const s3KeyPrefix = "uploads/"

// S3 keeps uploads in a bucket under the uploads/ prefix.
type S3 struct {
	bucket *aws.S3
}

func NewS3(bucket *aws.S3) *S3 {
	return &S3{bucket: bucket}
}

func (s *S3) Put(_ context.Context, name string, data []byte) error {
	return s.bucket.Upload(s3KeyPrefix+name, data)
}

func (s *S3) Delete(_ context.Context, name string) error {
	return s.bucket.Delete(s3KeyPrefix + name)
}

func (s *S3) List(ctx context.Context) ([]Object, error) {
	listed, err := s.bucket.List(ctx, s3KeyPrefix)
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(listed))
	for _, o := range listed {
		name := strings.TrimPrefix(o.Key, s3KeyPrefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		objects = append(objects, Object{Name: name, ModTime: o.LastModified})
	}
	return objects, nil
}

func (s *S3) URL(name string) string {
	return s.bucket.PublicURL(s3KeyPrefix + name)
}

func (s *S3) Name(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, s.bucket.PublicURL(s3KeyPrefix))
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
