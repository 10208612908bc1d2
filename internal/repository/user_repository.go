package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// SyncProfile runs the whole identity sync in one transaction.  INSERT
// IGNORE on the primary key decides whether the user is new, so two
// concurrent first logins cannot both seed categories.
func (r *UserRepo) SyncProfile(ctx context.Context, p model.ExternalProfile, seeds []model.CategorySeed) (res model.SyncResult, err error) {
	if p.ID == "" {
		return res, errors.New("sync profile: empty user id")
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("sync profile: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ins, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO users (id, name, image) VALUES (?,?,?)",
		p.ID, p.Name, p.Image)
	if err != nil {
		return res, fmt.Errorf("sync profile: insert user: %w", err)
	}
	n, err := ins.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("sync profile: %w", err)
	}

	if n == 1 {
		res.Created = true
		now := time.Now().UTC()
		for _, s := range seeds {
			if _, err = tx.ExecContext(ctx,
				"INSERT INTO categories (id, user_id, name, color, is_active, created_at) VALUES (?,?,?,?,1,?)",
				uuid.NewString(), p.ID, s.Name, s.Color, now); err != nil {
				return res, fmt.Errorf("sync profile: seed category %q: %w", s.Name, err)
			}
			res.SeededCount++
		}
	} else {
		var upd sql.Result
		upd, err = tx.ExecContext(ctx,
			"UPDATE users SET image=? WHERE id=? AND image<>?",
			p.Image, p.ID, p.Image)
		if err != nil {
			return res, fmt.Errorf("sync profile: update image: %w", err)
		}
		if k, _ := upd.RowsAffected(); k > 0 {
			res.ImageUpdated = true
		}
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("sync profile: commit: %w", err)
	}
	return res, nil
}

// GetByID fetches a user by provider id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,image,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Image, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}
