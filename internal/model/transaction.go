package model

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense owned by one user.  CategoryID
// is only set for expenses.  Category is populated by list/get queries that
// join the categories table and is nil when the row has no category.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CategoryID      *string         `json:"categories_id"`
	Amount          int64           `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	Type            TransactionType `json:"type"`
	CreatedAt       time.Time       `json:"created_at"`
	Category        *Category       `json:"categories,omitempty"`
}

// DateRange is a half-open [From, To) interval on transaction_date.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}
