package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/queue"
	"github.com/iliyamo/kakao-ledger/internal/repository"
)

// IdentitySync mirrors a successful external login into local state.
type IdentitySync struct {
	users  repository.UserStore
	events *Events
	seeds  []model.CategorySeed
	log    *slog.Logger
}

func NewIdentitySync(users repository.UserStore, events *Events) *IdentitySync {
	return &IdentitySync{
		users:  users,
		events: events,
		seeds:  model.DefaultCategories,
		log:    slog.With("component", "identity-sync"),
	}
}

// Sync upserts the user keyed by external id and seeds the default
// categories for a first login.  A storage failure is logged and the
// zero result returned: login goes ahead without the local mirror.
func (s *IdentitySync) Sync(ctx context.Context, p model.ExternalProfile) model.SyncResult {
	res, err := s.users.SyncProfile(ctx, p, s.seeds)
	if err != nil {
		s.log.Error("identity sync failed, continuing login", "user_id", p.ID, "provider", p.Provider, "error", err)
		return model.SyncResult{}
	}
	switch {
	case res.Created:
		s.log.Info("new user registered", "user_id", p.ID, "seeded_categories", res.SeededCount)
		s.events.Emit(ctx, queue.LedgerEvent{
			Type:        queue.EventUserSignedUp,
			UserID:      p.ID,
			SeededCount: res.SeededCount,
		})
	case res.ImageUpdated:
		s.log.Info("user avatar updated", "user_id", p.ID)
	}
	return res
}
