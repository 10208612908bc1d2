package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/ledger"
	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/queue"
	"github.com/iliyamo/kakao-ledger/internal/repository"
	"github.com/iliyamo/kakao-ledger/internal/service"
)

const transactionNotFound = "Transaction not found or unauthorized"

// TransactionHandler serves /api/transactions.
type TransactionHandler struct {
	Txs    repository.TransactionStore
	Cats   repository.CategoryStore
	Events *service.Events
	Errors Errors
	now    func() time.Time
}

func NewTransactionHandler(txs repository.TransactionStore, cats repository.CategoryStore, events *service.Events, errs Errors) *TransactionHandler {
	if txs == nil || cats == nil {
		panic("nil store passed to NewTransactionHandler")
	}
	return &TransactionHandler{
		Txs:    txs,
		Cats:   cats,
		Events: events,
		Errors: errs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// transactionReq is the create/update body.  Pointer fields distinguish
// "absent" from zero on update.
type transactionReq struct {
	ID              string  `json:"id"`
	Amount          *int64  `json:"amount"`
	Type            *string `json:"type"`
	CategoryID      *string `json:"categories_id"`
	Description     *string `json:"description"`
	TransactionDate *string `json:"transaction_date"`
}

// parseDate accepts YYYY-MM-DD (stored as UTC midnight) or RFC 3339.
func parseDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, invalid("transaction_date must be YYYY-MM-DD or RFC 3339")
}

// List handles GET /api/transactions?year=&month= and returns the summary.
func (h *TransactionHandler) List(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "fetch transactions", transactionNotFound, err)
	}
	period, err := ledger.ParsePeriod(c.QueryParam("year"), c.QueryParam("month"))
	if err != nil {
		return h.Errors.respond(c, "fetch transactions", transactionNotFound, invalid(err.Error()))
	}
	txs, err := h.Txs.List(c.Request().Context(), s.UserID, period)
	if err != nil {
		return h.Errors.respond(c, "fetch transactions", transactionNotFound, err)
	}
	return c.JSON(http.StatusOK, ledger.Summarize(txs))
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "create transaction", transactionNotFound, err)
	}
	var req transactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	tx := model.Transaction{UserID: s.UserID}
	if req.Amount == nil {
		return h.Errors.respond(c, "create transaction", transactionNotFound, invalid("amount is required"))
	}
	if req.Type == nil {
		return h.Errors.respond(c, "create transaction", transactionNotFound, invalid("type is required"))
	}
	if err := h.apply(c.Request().Context(), &tx, req, nil); err != nil {
		return h.Errors.respond(c, "create transaction", transactionNotFound, err)
	}

	ctx := c.Request().Context()
	if err := h.Txs.Create(ctx, &tx); err != nil {
		return h.Errors.respond(c, "create transaction", transactionNotFound, err)
	}
	out, err := h.Txs.Get(ctx, s.UserID, tx.ID)
	if err != nil {
		return h.Errors.respond(c, "create transaction", transactionNotFound, err)
	}
	h.emit(ctx, queue.EventTransactionCreated, out)
	return c.JSON(http.StatusCreated, out)
}

// Update handles PUT /api/transactions (?id=, /:id or body id).  The row
// is re-read under the session user first, so another user's id answers
// 404 and nothing is written.
func (h *TransactionHandler) Update(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "update transaction", transactionNotFound, err)
	}
	var req transactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id := resourceID(c, req.ID)
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Transaction ID is required"})
	}

	ctx := c.Request().Context()
	existing, err := h.Txs.Get(ctx, s.UserID, id)
	if err != nil {
		return h.Errors.respond(c, "update transaction", transactionNotFound, err)
	}
	tx := existing
	tx.Category = nil
	if err := h.apply(ctx, &tx, req, existing.CategoryID); err != nil {
		return h.Errors.respond(c, "update transaction", transactionNotFound, err)
	}
	if err := h.Txs.Update(ctx, &tx); err != nil {
		return h.Errors.respond(c, "update transaction", transactionNotFound, err)
	}
	out, err := h.Txs.Get(ctx, s.UserID, id)
	if err != nil {
		return h.Errors.respond(c, "update transaction", transactionNotFound, err)
	}
	h.emit(ctx, queue.EventTransactionUpdated, out)
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /api/transactions (?id= or /:id).
func (h *TransactionHandler) Delete(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "delete transaction", transactionNotFound, err)
	}
	id := resourceID(c, "")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Transaction ID is required"})
	}

	ctx := c.Request().Context()
	existing, err := h.Txs.Get(ctx, s.UserID, id)
	if err != nil {
		return h.Errors.respond(c, "delete transaction", transactionNotFound, err)
	}
	if err := h.Txs.Delete(ctx, s.UserID, id); err != nil {
		return h.Errors.respond(c, "delete transaction", transactionNotFound, err)
	}
	h.emit(ctx, queue.EventTransactionDeleted, existing)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// apply merges req into tx and enforces the transaction rules: positive
// amount, known type, income never carries a category, expense always
// carries one owned by the user.  A new category reference must be active;
// keeping the current (possibly deactivated) one is allowed.
func (h *TransactionHandler) apply(ctx context.Context, tx *model.Transaction, req transactionReq, current *string) error {
	if req.Amount != nil {
		tx.Amount = *req.Amount
	}
	if tx.Amount <= 0 {
		return invalid("amount must be a positive integer")
	}

	if req.Type != nil {
		tx.Type = model.TransactionType(strings.ToLower(strings.TrimSpace(*req.Type)))
	}
	if !tx.Type.Valid() {
		return invalid("type must be income or expense")
	}

	if req.Description != nil {
		tx.Description = strings.TrimSpace(*req.Description)
	}

	if req.TransactionDate != nil || tx.TransactionDate.IsZero() {
		raw := ""
		if req.TransactionDate != nil {
			raw = *req.TransactionDate
		}
		d, err := parseDate(raw, h.now())
		if err != nil {
			return err
		}
		tx.TransactionDate = d
	}

	if tx.Type == model.TypeIncome {
		tx.CategoryID = nil
		return nil
	}

	if req.CategoryID != nil {
		if ref := strings.TrimSpace(*req.CategoryID); ref != "" {
			tx.CategoryID = &ref
		} else {
			tx.CategoryID = nil
		}
	}
	if tx.CategoryID == nil {
		return invalid("categories_id is required for expenses")
	}

	cat, err := h.Cats.Get(ctx, tx.UserID, *tx.CategoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid("category not found")
	}
	if err != nil {
		return err
	}
	unchanged := current != nil && *current == cat.ID
	if !cat.IsActive && !unchanged {
		return invalid(repository.ErrCategoryInactive.Error())
	}
	return nil
}

func (h *TransactionHandler) emit(ctx context.Context, typ string, tx model.Transaction) {
	ev := queue.LedgerEvent{
		Type:            typ,
		UserID:          tx.UserID,
		TransactionID:   tx.ID,
		TransactionType: string(tx.Type),
		Amount:          tx.Amount,
		TransactionDate: tx.TransactionDate.UTC().Format(time.RFC3339),
	}
	if tx.CategoryID != nil {
		ev.CategoryID = *tx.CategoryID
	}
	h.Events.Emit(ctx, ev)
}
