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

// ApprovalService covers identity-document verification. Both verified and
// rejected are terminal: a decided document set cannot be decided again.
type ApprovalService struct {
	api       api.Dispatcher
	store     *cache.Store
	mutations *mutation.Controller
}

func NewApprovalService(d api.Dispatcher, store *cache.Store, mutations *mutation.Controller) *ApprovalService {
	return &ApprovalService{api: d, store: store, mutations: mutations}
}

var approvalTags = []cache.Tag{cache.TagApprovals, cache.TagUsers}

func (s *ApprovalService) Documents(ctx context.Context, userID string) (models.UserDocuments, error) {
	tags := []cache.Tag{cache.TagApprovals}
	return fetchAs(ctx, s.store, cache.UserDocumentsKey(userID), tags, func(ctx context.Context) (models.UserDocuments, error) {
		var docs models.UserDocuments
		err := s.api.Do(ctx, http.MethodGet, "/user-documents/"+userID, nil, &docs)
		return docs, err
	})
}

func (s *ApprovalService) Approve(ctx context.Context, userID string) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:         mutation.KindApprove,
		TargetID:     userID,
		Tags:         approvalTags,
		Precondition: s.notDecided(userID),
		Patch:        documentStatusPatch(userID, models.DocumentVerified),
		Dispatch: func(ctx context.Context) error {
			return s.api.Do(ctx, http.MethodPost, "/approve-documents/"+userID, nil, nil)
		},
	})
}

func (s *ApprovalService) Reject(ctx context.Context, userID string) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:         mutation.KindReject,
		TargetID:     userID,
		Tags:         approvalTags,
		Precondition: s.notDecided(userID),
		Patch:        documentStatusPatch(userID, models.DocumentRejected),
		Dispatch: func(ctx context.Context) error {
			return s.api.Do(ctx, http.MethodPost, "/reject-documents/"+userID, nil, nil)
		},
	})
}

// notDecided fails when the cached document state is already terminal.
// Unknown state passes; the server enforces the invariant authoritatively.
func (s *ApprovalService) notDecided(userID string) func() error {
	return func() error {
		entry, ok := s.store.Entry(cache.UserDocumentsKey(userID))
		if !ok || entry.Status != cache.StatusSuccess {
			return nil
		}
		docs, ok := entry.Data.(models.UserDocuments)
		if !ok {
			return nil
		}
		if docs.DocumentStatus == models.DocumentVerified || docs.DocumentStatus == models.DocumentRejected {
			return fmt.Errorf("%w: documents for %s already %s", common.ErrInvalidOperation, userID, docs.DocumentStatus)
		}
		return nil
	}
}

func documentStatusPatch(userID string, status models.DocumentStatus) mutation.Patch {
	return func(data any) any {
		switch v := data.(type) {
		case models.UserDocuments:
			if v.UserID == userID {
				v.DocumentStatus = status
			}
			return v
		case models.UserList:
			out := models.UserList{Users: make([]models.User, len(v.Users))}
			copy(out.Users, v.Users)
			for i := range out.Users {
				if out.Users[i].ID == userID {
					out.Users[i].DocumentStatus = status
				}
			}
			return out
		case models.UserDetails:
			if v.User.ID == userID {
				v.User.DocumentStatus = status
			}
			return v
		default:
			return data
		}
	}
}
