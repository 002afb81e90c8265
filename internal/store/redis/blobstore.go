package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/egdmrsy/TruBudget-SvKit/internal/blob"
)

// BlobStore serves zstd-compressed document payloads from Redis.
type BlobStore struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*BlobStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &BlobStore{client: client}, nil
}

func (s *BlobStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redis.BlobStore.Close: %w", err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (s *BlobStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis.BlobStore.Ping: %w", err)
	}
	return nil
}

func (s *BlobStore) Download(ctx context.Context, contentID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, DocumentKey(contentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, blob.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis.BlobStore.Download: %w", err)
	}

	data, err := blob.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("redis.BlobStore.Download: %w", err)
	}
	return data, nil
}

// DocumentKey returns the Redis key holding a document payload.
func DocumentKey(documentID string) string {
	return "doc:" + documentID
}
