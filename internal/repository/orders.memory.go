// Package repository implements the order store capability. The only
// backend is an in-memory map; a persistence engine is out of scope and
// the capability boundary keeps one swappable later.
package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/joshuarp/orders-api/internal/domain"
	"github.com/joshuarp/orders-api/internal/services"
	sharedetag "github.com/joshuarp/orders-api/internal/shared/etag"
)

const (
	defaultPageSize = 50
	pageSizeCap     = 100
)

var _ services.ResourceStore[domain.Order] = (*MemoryOrderStore)(nil)

type orderEntry struct {
	order domain.Order
	etag  services.ETag
}

// MemoryOrderStore is a mutex-guarded map store. The mutex serializes
// conflicting writes per identifier, so at most one writer wins per
// revision. Listing order is stable (identifier bytes ascending).
type MemoryOrderStore struct {
	mu      sync.RWMutex
	orders  map[uuid.UUID]orderEntry
	revTags sharedetag.Generator
}

func NewMemoryOrderStore(generator sharedetag.Generator) *MemoryOrderStore {
	return &MemoryOrderStore{
		orders:  make(map[uuid.UUID]orderEntry),
		revTags: generator,
	}
}

func (s *MemoryOrderStore) Create(ctx context.Context, id uuid.UUID, order domain.Order) (services.ETag, error) {
	etag, err := s.nextETag(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, exists := s.orders[id]; exists {
		return "", services.ErrResourceExists
	}

	s.orders[id] = orderEntry{order: order, etag: etag}
	return etag, nil
}

func (s *MemoryOrderStore) Replace(ctx context.Context, id uuid.UUID, expected services.ETag, order domain.Order) (services.ETag, error) {
	etag, err := s.nextETag(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	current, exists := s.orders[id]
	if !exists {
		return "", services.ErrResourceNotFound
	}
	if current.etag != expected {
		return "", services.ErrETagMismatch
	}

	s.orders[id] = orderEntry{order: order, etag: etag}
	return etag, nil
}

func (s *MemoryOrderStore) Find(ctx context.Context, id uuid.UUID) (services.StoredResource[domain.Order], bool, error) {
	if err := ctx.Err(); err != nil {
		return services.StoredResource[domain.Order]{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.orders[id]
	if !exists {
		return services.StoredResource[domain.Order]{}, false, nil
	}
	return services.StoredResource[domain.Order]{Resource: entry.order, ETag: entry.etag}, true, nil
}

func (s *MemoryOrderStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)
	return nil
}

func (s *MemoryOrderStore) List(ctx context.Context, req services.ListRequest) (services.ResourcePage[domain.Order], error) {
	if err := ctx.Err(); err != nil {
		return services.ResourcePage[domain.Order]{}, err
	}

	offset := req.Skip
	if req.ContinuationToken != "" {
		decoded, err := decodeContinuationToken(req.ContinuationToken)
		if err != nil {
			return services.ResourcePage[domain.Order]{}, services.ErrBadContinuationToken
		}
		offset = decoded
	}

	pageSize := effectivePageSize(req.Top, req.MaxPageSize)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	if offset >= len(ids) {
		return services.ResourcePage[domain.Order]{Items: []services.StoredResource[domain.Order]{}}, nil
	}

	end := offset + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	items := make([]services.StoredResource[domain.Order], 0, end-offset)
	for _, id := range ids[offset:end] {
		entry := s.orders[id]
		items = append(items, services.StoredResource[domain.Order]{Resource: entry.order, ETag: entry.etag})
	}

	page := services.ResourcePage[domain.Order]{Items: items}
	if end < len(ids) {
		page.ContinuationToken = encodeContinuationToken(end)
	}
	return page, nil
}

func (s *MemoryOrderStore) nextETag(ctx context.Context) (services.ETag, error) {
	token, err := s.revTags.Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("repository: failed to mint etag: %w", err)
	}
	return services.ETag(token), nil
}

func effectivePageSize(top, maxPageSize int) int {
	size := defaultPageSize
	if top > 0 && top < size {
		size = top
	}
	if maxPageSize > 0 && maxPageSize < size {
		size = maxPageSize
	}
	if size > pageSizeCap {
		size = pageSizeCap
	}
	return size
}

// Continuation tokens are opaque to clients: a base64 raw-URL encoding
// of the next offset.
func encodeContinuationToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodeContinuationToken(token string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("repository: malformed continuation token")
	}
	return offset, nil
}
