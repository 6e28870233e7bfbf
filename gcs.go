package main

import (
	"context"
	"io"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcsStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

func newGCSStore(ctx context.Context) (*gcsStore, error) {
	// public bucket, no credentials needed
	client, err := storage.NewClient(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, err
	}
	return &gcsStore{
		client: client,
		bucket: client.Bucket(l2MirrorBucket),
	}, nil
}

func (s *gcsStore) Name() string { return "gcs" }

func (s *gcsStore) list(ctx context.Context, prefix string) ([]string, []string, error) {
	blobs := []string{}
	dirs := []string{}

	it := s.bucket.Objects(ctx, &storage.Query{
		Prefix:    prefix,
		Delimiter: "/",
	})

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logrus.Errorf("Bucket.Objects: %v", err)
			return nil, nil, err
		}
		if attrs.Prefix != "" {
			dirs = append(dirs, filepath.Base(attrs.Prefix))
		} else {
			blobs = append(blobs, filepath.Base(attrs.Name))
		}
	}

	return blobs, dirs, nil
}

func (s *gcsStore) ListPrefixes(ctx context.Context, prefix string) ([]string, error) {
	_, dirs, err := s.list(ctx, prefix)
	return dirs, err
}

func (s *gcsStore) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	blobs, _, err := s.list(ctx, prefix)
	return blobs, err
}

func (s *gcsStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.bucket.Object(key).NewReader(ctx)
}

func (s *gcsStore) GetRange(ctx context.Context, key string, from, to int64) (io.ReadCloser, error) {
	length := int64(-1)
	if to >= 0 {
		length = to - from + 1
	}
	return s.bucket.Object(key).NewRangeReader(ctx, from, length)
}

func (s *gcsStore) Close() error { return s.client.Close() }
