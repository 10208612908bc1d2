// Package queue defines the ledger event payloads exchanged over RabbitMQ
// and the audit consumer that records them.
package queue

// Event types published by the API.
const (
	EventUserSignedUp       = "user.signed_up"
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventCategoryCreated    = "category.created"
	EventCategoryUpdated    = "category.updated"
	EventCategoryDisabled   = "category.deactivated"
)

// LedgerEvent is published after a successful mutation.  It carries enough
// for the audit log without querying the database; fields that do not apply
// to the event type are left empty.
type LedgerEvent struct {
	Type            string `json:"type"`
	UserID          string `json:"user_id"`
	TransactionID   string `json:"transaction_id,omitempty"`
	TransactionType string `json:"transaction_type,omitempty"`
	CategoryID      string `json:"category_id,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
	TransactionDate string `json:"transaction_date,omitempty"`
	SeededCount     int    `json:"seeded_count,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}
