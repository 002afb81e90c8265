// Package blob fetches document payloads that the ledger does not carry
// inline.
package blob

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

var (
	ErrBlobNotFound = errors.New("blob: not found")
	ErrHashMismatch = errors.New("blob: hash mismatch")
)

// Store downloads the payload stored under a content id.
type Store interface {
	Download(ctx context.Context, contentID string) ([]byte, error)
}

// Hash returns the hex BLAKE3-256 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify checks data against a recorded digest. An empty digest always
// passes; older references were recorded without one.
func Verify(data []byte, want string) error {
	if want == "" {
		return nil
	}
	if got := Hash(data); got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, got, want)
	}
	return nil
}

// Payloads are written zstd-compressed by the uploader. The decoder is
// safe for concurrent use.
//
//nolint:gochecknoglobals
var (
	decoderOnce sync.Once
	decoder     *zstd.Decoder
	decoderErr  error
)

// Decompress decodes a stored payload.
func Decompress(data []byte) ([]byte, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil)
	})
	if decoderErr != nil {
		return nil, fmt.Errorf("blob.Decompress: %w", decoderErr)
	}
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("blob.Decompress: %w", err)
	}
	return out, nil
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Put(contentID string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[contentID] = append([]byte(nil), data...)
}

func (m *Memory) Download(ctx context.Context, contentID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[contentID]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}
