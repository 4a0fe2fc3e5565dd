package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/common"
)

func TestUserService_AllUsesCache(t *testing.T) {
	fake := &fakeDispatcher{handler: func(method, path string, body any, out any) error {
		*(out.(*models.UserList)) = models.UserList{Users: []models.User{{ID: "1", Name: "Ada"}}}
		return nil
	}}
	svc := NewUserService(fake, newTestStore(), nil)

	ctx := context.Background()
	first, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, first.Users, 1)

	second, err := svc.All(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, fake.callCount("/users"))
}

func TestUserService_DetailsFetchesByID(t *testing.T) {
	fake := &fakeDispatcher{handler: func(method, path string, body any, out any) error {
		require.Equal(t, http.MethodGet, method)
		require.Equal(t, "/user-details/42", path)
		*(out.(*models.UserDetails)) = models.UserDetails{User: models.User{ID: "42", Name: "Grace"}}
		return nil
	}}
	svc := NewUserService(fake, newTestStore(), nil)

	details, err := svc.Details(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Grace", details.User.Name)
}

func TestUserService_DeleteRemovesRowOptimistically(t *testing.T) {
	store := newTestStore()
	fake := &fakeDispatcher{}
	svc := NewUserService(fake, store, newTestController(store))

	seedUserList(t, store, cache.UsersListKey(), models.UserList{Users: []models.User{
		{ID: "1"}, {ID: "2"},
	}})

	require.NoError(t, svc.Delete(context.Background(), "2"))

	call := fake.lastCall(t)
	require.Equal(t, http.MethodDelete, call.method)
	require.Equal(t, "/delete-user/2", call.path)

	list := entryUserList(t, store, cache.UsersListKey())
	require.Len(t, list.Users, 1)
	require.Equal(t, "1", list.Users[0].ID)
}

func TestUserService_DeleteRollsBackOnServerError(t *testing.T) {
	store := newTestStore()
	serverErr := errors.New("lease still active")
	fake := &fakeDispatcher{handler: func(method, path string, body any, out any) error {
		return serverErr
	}}
	svc := NewUserService(fake, store, newTestController(store))

	original := models.UserList{Users: []models.User{{ID: "1"}, {ID: "2"}}}
	seedUserList(t, store, cache.UsersListKey(), original)

	err := svc.Delete(context.Background(), "2")
	require.ErrorIs(t, err, serverErr)

	list := entryUserList(t, store, cache.UsersListKey())
	require.Equal(t, original, list)
}

func TestUserService_ApproveAdminPatchesStatus(t *testing.T) {
	store := newTestStore()
	fake := &fakeDispatcher{}
	svc := NewUserService(fake, store, newTestController(store))

	seedUserList(t, store, cache.PendingAdminsKey(), models.UserList{Users: []models.User{
		{ID: "7", Status: models.AdminStatusPending},
	}})

	require.NoError(t, svc.ApproveAdmin(context.Background(), "7"))

	call := fake.lastCall(t)
	require.Equal(t, http.MethodPost, call.method)
	require.Equal(t, "/approve-user/7", call.path)

	list := entryUserList(t, store, cache.PendingAdminsKey())
	require.Equal(t, models.AdminStatusApproved, list.Users[0].Status)
}

func TestUserService_ApproveAdminRejectsAlreadyApproved(t *testing.T) {
	store := newTestStore()
	fake := &fakeDispatcher{}
	svc := NewUserService(fake, store, newTestController(store))

	seedUserList(t, store, cache.UsersListKey(), models.UserList{Users: []models.User{
		{ID: "7", Status: models.AdminStatusApproved},
	}})

	err := svc.ApproveAdmin(context.Background(), "7")
	require.ErrorIs(t, err, common.ErrInvalidOperation)
	require.Empty(t, fake.calls)
}

func TestUserService_RejectAdminRemovesRecord(t *testing.T) {
	store := newTestStore()
	fake := &fakeDispatcher{}
	svc := NewUserService(fake, store, newTestController(store))

	seedUserList(t, store, cache.PendingAdminsKey(), models.UserList{Users: []models.User{
		{ID: "7", Status: models.AdminStatusPending},
		{ID: "8", Status: models.AdminStatusPending},
	}})

	require.NoError(t, svc.RejectAdmin(context.Background(), "7"))

	call := fake.lastCall(t)
	require.Equal(t, http.MethodDelete, call.method)
	require.Equal(t, "/delete-user/7", call.path)

	list := entryUserList(t, store, cache.PendingAdminsKey())
	require.Len(t, list.Users, 1)
	require.Equal(t, "8", list.Users[0].ID)
}

func TestUserService_RejectAdminRefusesApprovedAccount(t *testing.T) {
	store := newTestStore()
	fake := &fakeDispatcher{}
	svc := NewUserService(fake, store, newTestController(store))

	seedUserList(t, store, cache.UsersListKey(), models.UserList{Users: []models.User{
		{ID: "7", Status: models.AdminStatusApproved},
	}})

	err := svc.RejectAdmin(context.Background(), "7")
	require.ErrorIs(t, err, common.ErrInvalidOperation)
	require.Empty(t, fake.calls)
}

func TestUserService_TotalsEndpoint(t *testing.T) {
	fake := &fakeDispatcher{handler: func(method, path string, body any, out any) error {
		require.Equal(t, "/totalUsers", path)
		*(out.(*models.UserCount)) = models.UserCount{Users: 12}
		return nil
	}}
	svc := NewUserService(fake, newTestStore(), nil)

	count, err := svc.Totals(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, count.Users)
}
