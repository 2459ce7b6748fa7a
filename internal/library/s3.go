package library

import (
	"context"

	"newsreader/internal/storage"
)

const s3Folder = "library"

type objectStore interface {
	Key(parts ...string) string
	GetBytes(ctx context.Context, key string) ([]byte, error)
	PutBytes(ctx context.Context, key string, data []byte, meta storage.Meta) error
	Delete(ctx context.Context, key string) error
}

// S3Store keeps blobs under <prefix>/library/ in an S3 bucket.
type S3Store struct {
	objects objectStore
}

func NewS3Store(objects *storage.Store) *S3Store {
	return &S3Store{objects: objects}
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.objects.GetBytes(ctx, s.objects.Key(s3Folder, key))
	if storage.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	return s.objects.PutBytes(ctx, s.objects.Key(s3Folder, key), data, storage.Meta{
		ContentType:  "application/json",
		CacheControl: "no-store",
	})
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	return s.objects.Delete(ctx, s.objects.Key(s3Folder, key))
}
