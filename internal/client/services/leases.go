package services

import (
	"context"
	"net/http"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
)

// LeaseService covers the read-only dashboard views: active leases, the
// activity feed, and the transaction ledger.
type LeaseService struct {
	api   api.Dispatcher
	store *cache.Store
}

func NewLeaseService(d api.Dispatcher, store *cache.Store) *LeaseService {
	return &LeaseService{api: d, store: store}
}

var leaseTags = []cache.Tag{cache.TagLeases}

func (s *LeaseService) Active(ctx context.Context) (models.LeaseList, error) {
	return fetchAs(ctx, s.store, cache.ActiveLeasesKey(), leaseTags, func(ctx context.Context) (models.LeaseList, error) {
		var list models.LeaseList
		err := s.api.Do(ctx, http.MethodGet, "/activeLeases", nil, &list)
		return list, err
	})
}

func (s *LeaseService) RecentActivity(ctx context.Context) (models.ActivityList, error) {
	return fetchAs(ctx, s.store, cache.ActivityKey(), leaseTags, func(ctx context.Context) (models.ActivityList, error) {
		var list models.ActivityList
		err := s.api.Do(ctx, http.MethodGet, "/recent-activity", nil, &list)
		return list, err
	})
}

func (s *LeaseService) Transactions(ctx context.Context) (models.TransactionList, error) {
	return fetchAs(ctx, s.store, cache.TransactionsKey(), leaseTags, func(ctx context.Context) (models.TransactionList, error) {
		var list models.TransactionList
		err := s.api.Do(ctx, http.MethodGet, "/transactions", nil, &list)
		return list, err
	})
}
