package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/client/mutation"
	"github.com/citycarcenters/fleetconsole/internal/common"
)

// UserService covers renter accounts and pending admin accounts.
type UserService struct {
	api       api.Dispatcher
	store     *cache.Store
	mutations *mutation.Controller
}

func NewUserService(d api.Dispatcher, store *cache.Store, mutations *mutation.Controller) *UserService {
	return &UserService{api: d, store: store, mutations: mutations}
}

var userTags = []cache.Tag{cache.TagUsers}

func (s *UserService) All(ctx context.Context) (models.UserList, error) {
	return fetchAs(ctx, s.store, cache.UsersListKey(), userTags, func(ctx context.Context) (models.UserList, error) {
		var list models.UserList
		err := s.api.Do(ctx, http.MethodGet, "/users", nil, &list)
		return list, err
	})
}

func (s *UserService) New(ctx context.Context) (models.UserList, error) {
	return fetchAs(ctx, s.store, cache.NewUsersKey(), userTags, func(ctx context.Context) (models.UserList, error) {
		var list models.UserList
		err := s.api.Do(ctx, http.MethodGet, "/new-users", nil, &list)
		return list, err
	})
}

func (s *UserService) Active(ctx context.Context) (models.UserList, error) {
	return fetchAs(ctx, s.store, cache.ActiveUsersKey(), userTags, func(ctx context.Context) (models.UserList, error) {
		var list models.UserList
		err := s.api.Do(ctx, http.MethodGet, "/active-users", nil, &list)
		return list, err
	})
}

// PendingAdmins lists admin accounts awaiting approval. Tagged with approvals
// as well so approving or rejecting one refreshes the view.
func (s *UserService) PendingAdmins(ctx context.Context) (models.UserList, error) {
	tags := []cache.Tag{cache.TagUsers, cache.TagApprovals}
	return fetchAs(ctx, s.store, cache.PendingAdminsKey(), tags, func(ctx context.Context) (models.UserList, error) {
		var list models.UserList
		err := s.api.Do(ctx, http.MethodGet, "/pending-admin-users", nil, &list)
		return list, err
	})
}

func (s *UserService) Totals(ctx context.Context) (models.UserCount, error) {
	return fetchAs(ctx, s.store, cache.UserCountKey(), userTags, func(ctx context.Context) (models.UserCount, error) {
		var count models.UserCount
		err := s.api.Do(ctx, http.MethodGet, "/totalUsers", nil, &count)
		return count, err
	})
}

func (s *UserService) Details(ctx context.Context, id string) (models.UserDetails, error) {
	return fetchAs(ctx, s.store, cache.UserDetailsKey(id), userTags, func(ctx context.Context) (models.UserDetails, error) {
		var details models.UserDetails
		err := s.api.Do(ctx, http.MethodGet, "/user-details/"+id, nil, &details)
		return details, err
	})
}

// Delete removes a user. The optimistic patch drops the row from every
// cached user list; the rollback snapshot restores it if the server refuses.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:     mutation.KindDelete,
		TargetID: id,
		Tags:     []cache.Tag{cache.TagUsers, cache.TagApprovals},
		Patch:    removeUserPatch(id),
		Dispatch: func(ctx context.Context) error {
			return s.api.Do(ctx, http.MethodDelete, "/delete-user/"+id, nil, nil)
		},
	})
}

// ApproveAdmin moves a pending admin account to approved. Approving an
// already approved account is rejected locally; the transition is one-way.
func (s *UserService) ApproveAdmin(ctx context.Context, id string) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:     mutation.KindApprove,
		TargetID: id,
		Tags:     []cache.Tag{cache.TagUsers, cache.TagApprovals},
		Precondition: func() error {
			if status, known := s.adminStatus(id); known && status == models.AdminStatusApproved {
				return fmt.Errorf("%w: account %s already approved", common.ErrInvalidOperation, id)
			}
			return nil
		},
		Patch: approveUserPatch(id),
		Dispatch: func(ctx context.Context) error {
			return s.api.Do(ctx, http.MethodPost, "/approve-user/"+id, nil, nil)
		},
	})
}

// RejectAdmin removes a pending admin account outright. There is no
// rejected state for accounts; the record is deleted server-side.
func (s *UserService) RejectAdmin(ctx context.Context, id string) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:     mutation.KindReject,
		TargetID: id,
		Tags:     []cache.Tag{cache.TagUsers, cache.TagApprovals},
		Precondition: func() error {
			if status, known := s.adminStatus(id); known && status == models.AdminStatusApproved {
				return fmt.Errorf("%w: cannot reject approved account %s", common.ErrInvalidOperation, id)
			}
			return nil
		},
		Patch: removeUserPatch(id),
		Dispatch: func(ctx context.Context) error {
			return s.api.Do(ctx, http.MethodDelete, "/delete-user/"+id, nil, nil)
		},
	})
}

// adminStatus looks the account up in whatever cached views currently hold
// it. Unknown accounts pass preconditions; the server is the authority.
func (s *UserService) adminStatus(id string) (models.AdminStatus, bool) {
	keys := []cache.Key{
		cache.PendingAdminsKey(),
		cache.UsersListKey(),
		cache.NewUsersKey(),
		cache.ActiveUsersKey(),
	}
	for _, key := range keys {
		entry, ok := s.store.Entry(key)
		if !ok || entry.Status != cache.StatusSuccess {
			continue
		}
		list, ok := entry.Data.(models.UserList)
		if !ok {
			continue
		}
		for _, u := range list.Users {
			if u.ID == id {
				return u.Status, true
			}
		}
	}
	if entry, ok := s.store.Entry(cache.UserDetailsKey(id)); ok && entry.Status == cache.StatusSuccess {
		if details, ok := entry.Data.(models.UserDetails); ok {
			return details.User.Status, true
		}
	}
	return "", false
}

// removeUserPatch drops the user from any cached list payload; other payload
// shapes under the same tags pass through untouched.
func removeUserPatch(id string) mutation.Patch {
	return func(data any) any {
		if list, ok := data.(models.UserList); ok {
			return list.Remove(id)
		}
		return data
	}
}

func approveUserPatch(id string) mutation.Patch {
	return func(data any) any {
		switch v := data.(type) {
		case models.UserList:
			out := models.UserList{Users: make([]models.User, len(v.Users))}
			copy(out.Users, v.Users)
			for i := range out.Users {
				if out.Users[i].ID == id {
					out.Users[i].Status = models.AdminStatusApproved
				}
			}
			return out
		case models.UserDetails:
			if v.User.ID == id {
				v.User.Status = models.AdminStatusApproved
			}
			return v
		default:
			return data
		}
	}
}
