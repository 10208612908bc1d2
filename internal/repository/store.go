package repository

import (
	"context"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

// UserStore mirrors external identities into the users table.
type UserStore interface {
	// SyncProfile inserts the user when absent and seeds its categories,
	// or refreshes the stored image when it changed.  Repeated calls with
	// the same profile are no-ops.
	SyncProfile(ctx context.Context, p model.ExternalProfile, seeds []model.CategorySeed) (model.SyncResult, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// CategoryStore holds user-scoped categories.  Every method filters by
// userID; a row owned by another user behaves as missing.
type CategoryStore interface {
	ListActive(ctx context.Context, userID string) ([]model.Category, error)
	Get(ctx context.Context, userID, id string) (model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, userID, id, name, color string) (model.Category, error)
	Deactivate(ctx context.Context, userID, id string) error
}

// TransactionStore holds user-scoped transactions.  Listing and Get join
// the owning category, active or not.
type TransactionStore interface {
	List(ctx context.Context, userID string, period *model.DateRange) ([]model.Transaction, error)
	Get(ctx context.Context, userID, id string) (model.Transaction, error)
	Create(ctx context.Context, t *model.Transaction) error
	Update(ctx context.Context, t *model.Transaction) error
	Delete(ctx context.Context, userID, id string) error
}

var (
	_ UserStore        = (*UserRepo)(nil)
	_ CategoryStore    = (*CategoryRepo)(nil)
	_ TransactionStore = (*TransactionRepo)(nil)
)
