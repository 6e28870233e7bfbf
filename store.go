package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
)

const (
	l2Bucket       = "noaa-nexrad-level2"
	l2MirrorBucket = "gcp-public-data-nexrad-l2"
)

// ObjectStore is the narrow surface this service needs from a public bucket
// of Level II volume scans: given a key, a byte stream back.
type ObjectStore interface {
	Name() string
	// ListPrefixes returns the "directory" names directly under prefix.
	ListPrefixes(ctx context.Context, prefix string) ([]string, error)
	// ListObjects returns the object base names under prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// GetRange reads bytes [from, to] of an object; to < 0 means to EOF.
	GetRange(ctx context.Context, key string, from, to int64) (io.ReadCloser, error)
	Close() error
}

// storeForRequest picks the storage backend: the NOAA S3 bucket by default,
// the GCS mirror with ?source=gcs.
func storeForRequest(c *gin.Context) (ObjectStore, error) {
	if c.Query("source") == "gcs" {
		return newGCSStore(c.Request.Context())
	}
	return newS3Store(), nil
}

type s3Store struct {
	svc    *s3.S3
	bucket *string
}

func newS3Store() *s3Store {
	sess, _ := session.NewSession(&aws.Config{
		Credentials: credentials.AnonymousCredentials,
		Region:      aws.String("us-east-1"),
	})
	return &s3Store{
		svc:    s3.New(sess),
		bucket: aws.String(l2Bucket),
	}
}

func (s *s3Store) Name() string { return "s3" }

func (s *s3Store) ListPrefixes(ctx context.Context, prefix string) ([]string, error) {
	resp, err := s.svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    s.bucket,
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(resp.CommonPrefixes))
	for _, d := range resp.CommonPrefixes {
		dirs = append(dirs, filepath.Base(*d.Prefix))
	}
	return dirs, nil
}

func (s *s3Store) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	resp, err := s.svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: s.bucket,
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(resp.Contents))
	for _, d := range resp.Contents {
		files = append(files, filepath.Base(*d.Key))
	}
	return files, nil
}

func (s *s3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return obj.Body, nil
}

func (s *s3Store) GetRange(ctx context.Context, key string, from, to int64) (io.ReadCloser, error) {
	rng := fmt.Sprintf("bytes=%d-", from)
	if to >= 0 {
		rng = fmt.Sprintf("bytes=%d-%d", from, to)
	}
	obj, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(key),
		Range:  aws.String(rng),
	})
	if err != nil {
		return nil, err
	}
	return obj.Body, nil
}

func (s *s3Store) Close() error { return nil }
