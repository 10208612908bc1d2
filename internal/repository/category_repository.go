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

// CategoryRepo encapsulates the queries on the categories table.  All of
// them take the owning user id and filter by it.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = "id, user_id, name, color, is_active, created_at"

// ListActive returns the user's active categories ordered by name.
func (r *CategoryRepo) ListActive(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id=? AND is_active=1 ORDER BY name ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one category, active or not.
func (r *CategoryRepo) Get(ctx context.Context, userID, id string) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id=? AND user_id=?",
		id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create inserts c as an active category.  ID and CreatedAt are filled in.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.IsActive = true
	c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories ("+categoryColumns+") VALUES (?,?,?,?,?,?)",
		c.ID, c.UserID, c.Name, c.Color, c.IsActive, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update changes name and color and returns the stored row.
func (r *CategoryRepo) Update(ctx context.Context, userID, id, name, color string) (model.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name=?, color=? WHERE id=? AND user_id=?",
		name, color, id, userID)
	if err != nil {
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Category{}, ErrNotFound
	}
	return r.Get(ctx, userID, id)
}

// Deactivate soft-deletes the category.  Transactions keep pointing at it.
func (r *CategoryRepo) Deactivate(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET is_active=0 WHERE id=? AND user_id=?",
		id, userID)
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
