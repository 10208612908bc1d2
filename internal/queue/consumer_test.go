package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	line := FormatLine(LedgerEvent{
		Type:            EventTransactionCreated,
		UserID:          "42",
		TransactionID:   "tx-1",
		TransactionType: "expense",
		Amount:          5000,
		TransactionDate: "2025-03-10",
		CategoryID:      "cat-1",
		OccurredAt:      "2025-03-10T12:00:00Z",
	})
	assert.Equal(t,
		"[2025-03-10T12:00:00Z] transaction.created | user_id=42 | transaction_id=tx-1 | kind=expense | amount=5000 | date=2025-03-10 | category_id=cat-1\n",
		line)

	signup := FormatLine(LedgerEvent{Type: EventUserSignedUp, UserID: "7", SeededCount: 8, OccurredAt: "t"})
	assert.Equal(t, "[t] user.signed_up | user_id=7 | seeded=8\n", signup)
}

func TestHandleAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.log")
	a := NewAuditConsumer("amqp://unused", "q", path)

	for _, id := range []string{"a", "b"} {
		body, err := json.Marshal(LedgerEvent{Type: EventTransactionDeleted, UserID: "1", TransactionID: id, OccurredAt: "t"})
		require.NoError(t, err)
		require.NoError(t, a.Handle(body))
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "transaction_id=a")
	assert.Contains(t, lines[1], "transaction_id=b")
}

func TestHandleRejectsBadPayload(t *testing.T) {
	a := NewAuditConsumer("amqp://unused", "q", filepath.Join(t.TempDir(), "audit.log"))
	assert.Error(t, a.Handle([]byte("{not json")))
	assert.Error(t, a.Handle([]byte(`{"type":""}`)))
}
