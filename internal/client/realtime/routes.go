package realtime

import (
	"encoding/json"

	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
)

// RegisterDefaults installs the console's static event mapping. Deletion
// events patch cached lists and clear a matching open detail panel before
// the tag invalidation refetches derived views such as totals.
func RegisterDefaults(b *Bridge, store *cache.Store, users, cars *Selection) {
	b.Register("userDeleted", Route{
		Tags: []cache.Tag{cache.TagUsers, cache.TagApprovals},
		Apply: func(payload json.RawMessage) {
			var p struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(payload, &p); err != nil || p.ID == "" {
				return
			}
			removeUserFromLists(store, p.ID)
			store.Clear(cache.UserDetailsKey(p.ID))
			store.Clear(cache.UserDocumentsKey(p.ID))
			if users != nil {
				users.Drop(p.ID)
			}
		},
	})

	b.Register("userAdded", Route{
		Tags: []cache.Tag{cache.TagUsers},
		Apply: func(payload json.RawMessage) {
			var u models.User
			if err := json.Unmarshal(payload, &u); err != nil || u.ID == "" {
				return
			}
			for _, key := range []cache.Key{cache.UsersListKey(), cache.NewUsersKey()} {
				store.Mutate(key, func(data any) any {
					if list, ok := data.(models.UserList); ok {
						return list.Prepend(u)
					}
					return data
				})
			}
		},
	})

	b.Register("carDeleted", Route{
		Tags: []cache.Tag{cache.TagCars},
		Apply: func(payload json.RawMessage) {
			var p struct {
				CarID string `json:"carId"`
			}
			if err := json.Unmarshal(payload, &p); err != nil || p.CarID == "" {
				return
			}
			for _, key := range []cache.Key{cache.CarsListKey(), cache.RecentCarsKey()} {
				store.Mutate(key, func(data any) any {
					if list, ok := data.(models.CarList); ok {
						return list.Remove(p.CarID)
					}
					return data
				})
			}
			store.Clear(cache.CarDetailsKey(p.CarID))
			if cars != nil {
				cars.Drop(p.CarID)
			}
		},
	})
}

func removeUserFromLists(store *cache.Store, id string) {
	keys := []cache.Key{
		cache.UsersListKey(),
		cache.NewUsersKey(),
		cache.ActiveUsersKey(),
		cache.PendingAdminsKey(),
	}
	for _, key := range keys {
		store.Mutate(key, func(data any) any {
			if list, ok := data.(models.UserList); ok {
				return list.Remove(id)
			}
			return data
		})
	}
}
