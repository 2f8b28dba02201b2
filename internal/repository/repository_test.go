package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/joshuarp/orders-api/internal/domain"
	"github.com/joshuarp/orders-api/internal/services"
	sharedetag "github.com/joshuarp/orders-api/internal/shared/etag"
)

func testOrder(size domain.PizzaSize) domain.Order {
	return domain.Order{
		Pizzas:     []domain.Pizza{{Size: size, Toppings: []domain.Topping{}}},
		PickupTime: time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC),
	}
}

type MemoryOrderStoreSuite struct {
	suite.Suite

	store *MemoryOrderStore
	id    uuid.UUID
}

func (s *MemoryOrderStoreSuite) SetupTest() {
	generator, err := sharedetag.NewUUIDv7()
	require.NoError(s.T(), err)

	s.store = NewMemoryOrderStore(generator)
	s.id = uuid.MustParse("b7a6a9a2-6f13-4f44-95b0-b2f06e1c2a01")
}

func (s *MemoryOrderStoreSuite) TestCreate_ThenFind() {
	etag, err := s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeLarge))
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), etag)

	stored, found, err := s.store.Find(context.Background(), s.id)
	require.NoError(s.T(), err)
	require.True(s.T(), found)
	assert.Equal(s.T(), etag, stored.ETag)
	assert.Equal(s.T(), domain.PizzaSizeLarge, stored.Resource.Pizzas[0].Size)
}

func (s *MemoryOrderStoreSuite) TestCreate_Conflict() {
	_, err := s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeLarge))
	require.NoError(s.T(), err)

	_, err = s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeSmall))
	assert.ErrorIs(s.T(), err, services.ErrResourceExists)

	stored, _, err := s.store.Find(context.Background(), s.id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.PizzaSizeLarge, stored.Resource.Pizzas[0].Size, "conflict must not alter stored resource")
}

func (s *MemoryOrderStoreSuite) TestReplace_TableDriven() {
	created, err := s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeLarge))
	require.NoError(s.T(), err)

	tests := []struct {
		name     string
		id       uuid.UUID
		expected services.ETag
		wantErr  error
	}{
		{name: "missing resource", id: uuid.MustParse("00000000-0000-4000-8000-000000000001"), expected: created, wantErr: services.ErrResourceNotFound},
		{name: "stale etag", id: s.id, expected: "stale", wantErr: services.ErrETagMismatch},
		{name: "matching etag", id: s.id, expected: created},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			next, err := s.store.Replace(context.Background(), tc.id, tc.expected, testOrder(domain.PizzaSizeSmall))

			if tc.wantErr != nil {
				assert.ErrorIs(s.T(), err, tc.wantErr)
				return
			}

			require.NoError(s.T(), err)
			assert.NotEqual(s.T(), created, next, "replace must mint a fresh etag")

			stored, _, err := s.store.Find(context.Background(), tc.id)
			require.NoError(s.T(), err)
			assert.Equal(s.T(), next, stored.ETag)
			assert.Equal(s.T(), domain.PizzaSizeSmall, stored.Resource.Pizzas[0].Size)
		})
	}
}

func (s *MemoryOrderStoreSuite) TestReplace_StaleWriteLeavesContentUntouched() {
	created, err := s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeLarge))
	require.NoError(s.T(), err)

	_, err = s.store.Replace(context.Background(), s.id, "stale", testOrder(domain.PizzaSizeSmall))
	require.ErrorIs(s.T(), err, services.ErrETagMismatch)

	stored, _, err := s.store.Find(context.Background(), s.id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created, stored.ETag)
	assert.Equal(s.T(), domain.PizzaSizeLarge, stored.Resource.Pizzas[0].Size)
}

func (s *MemoryOrderStoreSuite) TestDelete_Idempotent() {
	_, err := s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeLarge))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.store.Delete(context.Background(), s.id))
	_, found, err := s.store.Find(context.Background(), s.id)
	require.NoError(s.T(), err)
	assert.False(s.T(), found)

	// Absent identifier deletes succeed too.
	require.NoError(s.T(), s.store.Delete(context.Background(), s.id))
}

func (s *MemoryOrderStoreSuite) TestConcurrentReplace_SingleWinnerPerRevision() {
	created, err := s.store.Create(context.Background(), s.id, testOrder(domain.PizzaSizeLarge))
	require.NoError(s.T(), err)

	const writers = 16
	var wg sync.WaitGroup
	winners := make(chan services.ETag, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := s.store.Replace(context.Background(), s.id, created, testOrder(domain.PizzaSizeSmall))
			if err == nil {
				winners <- next
			}
		}()
	}
	wg.Wait()
	close(winners)

	var won []services.ETag
	for etag := range winners {
		won = append(won, etag)
	}
	require.Len(s.T(), won, 1, "exactly one concurrent replace may win per revision")

	stored, _, err := s.store.Find(context.Background(), s.id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), won[0], stored.ETag)
}

func (s *MemoryOrderStoreSuite) TestList_PagingWalksAllItems() {
	ctx := context.Background()
	const total = 7
	for i := 0; i < total; i++ {
		id := uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-00000000000%d", i))
		_, err := s.store.Create(ctx, id, testOrder(domain.PizzaSizeLarge))
		require.NoError(s.T(), err)
	}

	seen := 0
	token := ""
	pages := 0
	for {
		page, err := s.store.List(ctx, services.ListRequest{Top: 3, ContinuationToken: token})
		require.NoError(s.T(), err)

		seen += len(page.Items)
		pages++
		if page.ContinuationToken == "" {
			break
		}
		token = page.ContinuationToken
		require.Less(s.T(), pages, 10, "paging must terminate")
	}

	assert.Equal(s.T(), total, seen)
	assert.Equal(s.T(), 3, pages)
}

func (s *MemoryOrderStoreSuite) TestList_StableOrderAndSkip() {
	ctx := context.Background()
	first := uuid.MustParse("00000000-0000-4000-8000-000000000001")
	second := uuid.MustParse("00000000-0000-4000-8000-000000000002")

	secondOrder := testOrder(domain.PizzaSizeSmall)
	secondOrder.ID = second
	_, err := s.store.Create(ctx, second, secondOrder)
	require.NoError(s.T(), err)

	firstOrder := testOrder(domain.PizzaSizeLarge)
	firstOrder.ID = first
	_, err = s.store.Create(ctx, first, firstOrder)
	require.NoError(s.T(), err)

	page, err := s.store.List(ctx, services.ListRequest{})
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Items, 2)
	assert.Equal(s.T(), first, page.Items[0].Resource.ID)
	assert.Equal(s.T(), second, page.Items[1].Resource.ID)

	skipped, err := s.store.List(ctx, services.ListRequest{Skip: 1})
	require.NoError(s.T(), err)
	require.Len(s.T(), skipped.Items, 1)
	assert.Equal(s.T(), second, skipped.Items[0].Resource.ID)
}

func (s *MemoryOrderStoreSuite) TestList_BadToken() {
	_, err := s.store.List(context.Background(), services.ListRequest{ContinuationToken: "!!not-base64!!"})
	assert.ErrorIs(s.T(), err, services.ErrBadContinuationToken)
}

func (s *MemoryOrderStoreSuite) TestContextCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.store.Create(ctx, s.id, testOrder(domain.PizzaSizeLarge))
	assert.ErrorIs(s.T(), err, context.Canceled)

	_, _, err = s.store.Find(ctx, s.id)
	assert.ErrorIs(s.T(), err, context.Canceled)

	_, found, err := s.store.Find(context.Background(), s.id)
	require.NoError(s.T(), err)
	assert.False(s.T(), found, "cancelled create must not mutate the store")
}

func (s *MemoryOrderStoreSuite) TestEffectivePageSize_TableDriven() {
	tests := []struct {
		name        string
		top         int
		maxPageSize int
		want        int
	}{
		{name: "defaults", want: 50},
		{name: "top narrows", top: 5, want: 5},
		{name: "max page size narrows", maxPageSize: 10, want: 10},
		{name: "smallest wins", top: 20, maxPageSize: 10, want: 10},
		{name: "large values fall back to default", top: 500, maxPageSize: 900, want: 50},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			assert.Equal(s.T(), tc.want, effectivePageSize(tc.top, tc.maxPageSize))
		})
	}
}

func TestMemoryOrderStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryOrderStoreSuite))
}
