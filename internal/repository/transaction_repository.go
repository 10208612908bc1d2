package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

// TransactionRepo encapsulates the queries on the transactions table.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// The LEFT JOIN keeps income rows and rows whose category was deactivated.
const transactionSelect = `
SELECT t.id, t.user_id, t.categories_id, t.amount, t.description, t.transaction_date, t.type, t.created_at,
       c.id, c.user_id, c.name, c.color, c.is_active, c.created_at
  FROM transactions t
  LEFT JOIN categories c ON c.id = t.categories_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (model.Transaction, error) {
	var (
		t       model.Transaction
		catRef  sql.NullString
		desc    sql.NullString
		typ     string
		cID     sql.NullString
		cUser   sql.NullString
		cName   sql.NullString
		cColor  sql.NullString
		cActive sql.NullBool
		cAt     sql.NullTime
	)
	err := s.Scan(&t.ID, &t.UserID, &catRef, &t.Amount, &desc, &t.TransactionDate, &typ, &t.CreatedAt,
		&cID, &cUser, &cName, &cColor, &cActive, &cAt)
	if err != nil {
		return t, err
	}
	t.Type = model.TransactionType(typ)
	t.Description = desc.String
	if catRef.Valid {
		ref := catRef.String
		t.CategoryID = &ref
	}
	if cID.Valid {
		t.Category = &model.Category{
			ID:        cID.String,
			UserID:    cUser.String,
			Name:      cName.String,
			Color:     cColor.String,
			IsActive:  cActive.Bool,
			CreatedAt: cAt.Time,
		}
	}
	return t, nil
}

// List returns the user's transactions, newest transaction_date first.
// A nil period returns the full history.
func (r *TransactionRepo) List(ctx context.Context, userID string, period *model.DateRange) ([]model.Transaction, error) {
	var (
		where = []string{"t.user_id = ?"}
		args  = []any{userID}
	)
	if period != nil {
		where = append(where, "t.transaction_date >= ?", "t.transaction_date < ?")
		args = append(args, period.From, period.To)
	}
	q := transactionSelect + "\n WHERE " + strings.Join(where, " AND ") +
		"\n ORDER BY t.transaction_date DESC, t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns one transaction owned by userID.
func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		transactionSelect+"\n WHERE t.id = ? AND t.user_id = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Create inserts t.  ID and CreatedAt are filled in.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, categories_id, amount, description, transaction_date, type, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		t.ID, t.UserID, t.CategoryID, t.Amount, t.Description, t.TransactionDate.UTC(), string(t.Type), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a row owned by t.UserID.  The
// DSN sets clientFoundRows so an unchanged row still counts as matched.
func (r *TransactionRepo) Update(ctx context.Context, t *model.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		    SET categories_id=?, amount=?, description=?, transaction_date=?, type=?
		  WHERE id=? AND user_id=?`,
		t.CategoryID, t.Amount, t.Description, t.TransactionDate.UTC(), string(t.Type), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a row owned by userID.
func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
