package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/kakao-ledger/internal/ledger"
	"github.com/iliyamo/kakao-ledger/internal/middleware"
	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/repository"
	"github.com/iliyamo/kakao-ledger/internal/repository/memory"
	"github.com/iliyamo/kakao-ledger/internal/service"
	"github.com/iliyamo/kakao-ledger/internal/utils"
)

const testSecret = "handler-test-secret-0123456789"

type testEnv struct {
	e      *echo.Echo
	store  *memory.Store
	issuer *utils.SessionIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	iss, err := utils.NewSessionIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	store := memory.New()
	events := service.NewEvents(nil)
	cats := NewCategoryHandler(store.Categories(), events, Errors{})
	txs := NewTransactionHandler(store.Transactions(), store.Categories(), events, Errors{})
	cal := NewCalendarHandler(store.Transactions(), time.UTC, Errors{})
	auth := NewAuthHandler(iss, service.NewIdentitySync(store.Users(), events), nil, nil)

	e := echo.New()
	g := e.Group("/api", middleware.SessionAuth(iss, nil))
	g.GET("/me", auth.Me)
	g.GET("/categories", cats.List)
	g.POST("/categories", cats.Create)
	g.PUT("/categories", cats.Update)
	g.PUT("/categories/:id", cats.Update)
	g.PATCH("/categories", cats.Deactivate)
	g.PATCH("/categories/:id", cats.Deactivate)
	g.GET("/transactions", txs.List)
	g.POST("/transactions", txs.Create)
	g.PUT("/transactions", txs.Update)
	g.PUT("/transactions/:id", txs.Update)
	g.DELETE("/transactions", txs.Delete)
	g.DELETE("/transactions/:id", txs.Delete)
	g.GET("/calendar", cal.Month)
	g.GET("/calendar/days/:day", cal.Day)

	return &testEnv{e: e, store: store, issuer: iss}
}

// login syncs the user (seeding default categories) and returns a bearer token.
func (te *testEnv) login(t *testing.T, id string) string {
	t.Helper()
	p := model.ExternalProfile{Provider: "kakao", ID: id, Name: "user-" + id, Image: "https://img/" + id}
	_, err := te.store.Users().SyncProfile(context.Background(), p, model.DefaultCategories)
	require.NoError(t, err)
	tok, err := te.issuer.Issue(p, "access-"+id)
	require.NoError(t, err)
	return tok.Token
}

func (te *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	te.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (te *testEnv) createCategory(t *testing.T, token, name string) model.Category {
	t.Helper()
	rec := te.do(http.MethodPost, "/api/categories", `{"name":"`+name+`","color":"#FF0000"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Category](t, rec)
}

func (te *testEnv) createTx(t *testing.T, token, body string) model.Transaction {
	t.Helper()
	rec := te.do(http.MethodPost, "/api/transactions", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Transaction](t, rec)
}

func TestAPIRequiresSession(t *testing.T) {
	te := newTestEnv(t)
	for _, path := range []string{"/api/me", "/api/categories", "/api/transactions", "/api/calendar"} {
		rec := te.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	}
}

func TestMonthlySummaryScenario(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1001")
	food := te.createCategory(t, tok, "food")

	te.createTx(t, tok, `{"amount":5000,"type":"expense","categories_id":"`+food.ID+`","transaction_date":"2025-03-10"}`)
	income := te.createTx(t, tok, `{"amount":20000,"type":"income","categories_id":"`+food.ID+`","transaction_date":"2025-03-15"}`)
	assert.Nil(t, income.CategoryID, "income never carries a category")
	// Outside the month.
	te.createTx(t, tok, `{"amount":777,"type":"expense","categories_id":"`+food.ID+`","transaction_date":"2025-04-01"}`)

	rec := te.do(http.MethodGet, "/api/transactions?year=2025&month=3", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sum := decode[ledger.Summary](t, rec)

	assert.Len(t, sum.Transactions, 2)
	assert.Equal(t, int64(5000), sum.ExpenseTotal)
	assert.Equal(t, int64(20000), sum.IncomeTotal)
	assert.Equal(t, int64(15000), sum.Balance)
	require.NotNil(t, sum.TopCategory)
	assert.Equal(t, "food", sum.TopCategory.Name)
	assert.Equal(t, food.ID, sum.TopCategory.ID)

	all := decode[ledger.Summary](t, te.do(http.MethodGet, "/api/transactions", "", tok))
	assert.Len(t, all.Transactions, 3)
}

func TestTransactionsBadMonth(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")
	rec := te.do(http.MethodGet, "/api/transactions?year=2025&month=13", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "month")
}

func TestCreateTransactionValidation(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")
	other := te.login(t, "2")
	foreign := te.createCategory(t, other, "theirs")

	cases := []struct {
		name string
		body string
	}{
		{"zero amount", `{"amount":0,"type":"income"}`},
		{"negative amount", `{"amount":-5,"type":"income"}`},
		{"missing amount", `{"type":"income"}`},
		{"bad type", `{"amount":10,"type":"transfer"}`},
		{"expense without category", `{"amount":10,"type":"expense"}`},
		{"foreign category", `{"amount":10,"type":"expense","categories_id":"` + foreign.ID + `"}`},
		{"bad date", `{"amount":10,"type":"income","transaction_date":"10/03/2025"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := te.do(http.MethodPost, "/api/transactions", tc.body, tok)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCrossUserMutationIsNotFound(t *testing.T) {
	te := newTestEnv(t)
	owner := te.login(t, "owner")
	intruder := te.login(t, "intruder")
	tx := te.createTx(t, owner, `{"amount":1000,"type":"income","transaction_date":"2025-03-10"}`)

	rec := te.do(http.MethodPut, "/api/transactions?id="+tx.ID, `{"amount":1}`, intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Transaction not found or unauthorized"}`, rec.Body.String())

	rec = te.do(http.MethodDelete, "/api/transactions/"+tx.ID, "", intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	got, err := te.store.Transactions().Get(context.Background(), "owner", tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Amount)
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")
	cat := te.createCategory(t, tok, "transport")
	tx := te.createTx(t, tok, `{"amount":1200,"type":"expense","categories_id":"`+cat.ID+`","description":"bus","transaction_date":"2025-03-02"}`)

	rec := te.do(http.MethodPut, "/api/transactions", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Transaction ID is required"}`, rec.Body.String())

	rec = te.do(http.MethodPut, "/api/transactions", `{"id":"`+tx.ID+`","amount":1500}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Transaction](t, rec)
	assert.Equal(t, int64(1500), updated.Amount)
	assert.Equal(t, "bus", updated.Description)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, cat.ID, *updated.CategoryID)

	// Switching to income drops the category.
	rec = te.do(http.MethodPut, "/api/transactions/"+tx.ID, `{"type":"income"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[model.Transaction](t, rec).CategoryID)

	rec = te.do(http.MethodDelete, "/api/transactions", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = te.do(http.MethodDelete, "/api/transactions?id="+tx.ID, "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = te.do(http.MethodDelete, "/api/transactions?id="+tx.ID, "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryLifecycle(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")

	list := decode[[]model.Category](t, te.do(http.MethodGet, "/api/categories", "", tok))
	assert.Len(t, list, len(model.DefaultCategories))

	rec := te.do(http.MethodPost, "/api/categories", `{"name":"  ","color":"#fff"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = te.do(http.MethodPost, "/api/categories", `{"name":"pets","color":"red"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	pets := te.createCategory(t, tok, "pets")
	assert.True(t, pets.IsActive)

	rec = te.do(http.MethodPut, "/api/categories", `{"name":"x","color":"#000"}`, tok)
	assert.JSONEq(t, `{"error":"Category ID is required"}`, rec.Body.String())

	rec = te.do(http.MethodPut, "/api/categories/"+pets.ID, `{"name":"animals","color":"#00ff00"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "animals", decode[model.Category](t, rec).Name)

	other := te.login(t, "2")
	rec = te.do(http.MethodPatch, "/api/categories/"+pets.ID, "", other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = te.do(http.MethodPatch, "/api/categories", `{"id":"`+pets.ID+`"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"id":"`+pets.ID+`"}`, rec.Body.String())

	list = decode[[]model.Category](t, te.do(http.MethodGet, "/api/categories", "", tok))
	for _, c := range list {
		assert.NotEqual(t, pets.ID, c.ID)
	}
}

func TestDeactivateRejectsMalformedBody(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")
	pets := te.createCategory(t, tok, "pets")

	rec := te.do(http.MethodPatch, "/api/categories/"+pets.ID, `{"id":`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())

	// Still active after the rejected request.
	got, err := te.store.Categories().Get(context.Background(), "1", pets.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	rec = te.do(http.MethodPatch, "/api/categories/"+pets.ID, "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeactivatedCategoryKeepsTransactions(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")
	food := te.createCategory(t, tok, "food")
	tx := te.createTx(t, tok, `{"amount":5000,"type":"expense","categories_id":"`+food.ID+`","transaction_date":"2025-03-10"}`)

	rec := te.do(http.MethodPatch, "/api/categories/"+food.ID, "", tok)
	require.Equal(t, http.StatusOK, rec.Code)

	sum := decode[ledger.Summary](t, te.do(http.MethodGet, "/api/transactions?year=2025&month=3", "", tok))
	require.Len(t, sum.Transactions, 1)
	got := sum.Transactions[0]
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, food.ID, *got.CategoryID)
	require.NotNil(t, got.Category)
	assert.False(t, got.Category.IsActive)
	assert.Equal(t, "food", sum.TopCategory.Name)

	// New references to the inactive category are refused...
	rec = te.do(http.MethodPost, "/api/transactions", `{"amount":1,"type":"expense","categories_id":"`+food.ID+`"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// ...but the existing row can still be edited.
	rec = te.do(http.MethodPut, "/api/transactions/"+tx.ID, `{"amount":6000}`, tok)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCalendarMonthAndDay(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "1")
	food := te.createCategory(t, tok, "food")
	te.createTx(t, tok, `{"amount":5000,"type":"expense","categories_id":"`+food.ID+`","transaction_date":"2025-03-10"}`)
	te.createTx(t, tok, `{"amount":3000,"type":"expense","categories_id":"`+food.ID+`","transaction_date":"2025-03-10"}`)
	te.createTx(t, tok, `{"amount":20000,"type":"income","transaction_date":"2025-03-15"}`)

	rec := te.do(http.MethodGet, "/api/calendar?year=2025&month=3&tz=America/New_York", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[calendarResp](t, rec)
	assert.Equal(t, 31, resp.Calendar.DaysInMonth)
	assert.Equal(t, int(time.Saturday), resp.Calendar.FirstWeekday)
	assert.Equal(t, int64(8000), resp.Calendar.Days[9].Expense)
	assert.Equal(t, 2, resp.Calendar.Days[9].Count)
	require.Len(t, resp.Calendar.Days[9].Categories, 1)
	assert.Equal(t, int64(20000), resp.Calendar.Days[14].Income)
	assert.Equal(t, int64(12000), resp.Balance)

	rec = te.do(http.MethodGet, "/api/calendar/days/10?year=2025&month=3", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	day := decode[ledger.DayDetail](t, rec)
	assert.Equal(t, int64(8000), day.Expense)
	require.Len(t, day.ExpenseGroups, 1)
	assert.Len(t, day.ExpenseGroups[0].Transactions, 2)
	assert.Empty(t, day.Incomes)

	assert.Equal(t, http.StatusBadRequest, te.do(http.MethodGet, "/api/calendar?tz=Mars/Olympus", "", tok).Code)
	assert.Equal(t, http.StatusBadRequest, te.do(http.MethodGet, "/api/calendar/days/31?year=2025&month=2", "", tok).Code)
	assert.Equal(t, http.StatusBadRequest, te.do(http.MethodGet, "/api/calendar?year=2025&month=0", "", tok).Code)
}

func TestMe(t *testing.T) {
	te := newTestEnv(t)
	tok := te.login(t, "77")
	rec := te.do(http.MethodGet, "/api/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[meResp](t, rec)
	assert.Equal(t, "77", me.ID)
	assert.Equal(t, "user-77", me.Name)
	assert.Equal(t, "https://img/77", me.Image)
	assert.WithinDuration(t, time.Now().Add(time.Hour), me.ExpiresAt, time.Minute)
	assert.Contains(t, rec.Body.String(), `"expires_at":"`)
}

// ---- error mapping ----

type brokenTxs struct{ repository.TransactionStore }

func (brokenTxs) List(context.Context, string, *model.DateRange) ([]model.Transaction, error) {
	return nil, errors.New("connection refused")
}

func TestStorageErrorDetailHiddenInProd(t *testing.T) {
	iss, err := utils.NewSessionIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	tok, err := iss.Issue(model.ExternalProfile{ID: "1"}, "")
	require.NoError(t, err)

	for _, hide := range []bool{false, true} {
		h := NewTransactionHandler(brokenTxs{}, memory.New().Categories(), nil, Errors{Hide: hide})
		e := echo.New()
		e.GET("/api/transactions", h.List, middleware.SessionAuth(iss, nil))

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		if hide {
			assert.JSONEq(t, `{"error":"failed to fetch transactions"}`, rec.Body.String())
		} else {
			assert.JSONEq(t, `{"error":"failed to fetch transactions: connection refused"}`, rec.Body.String())
		}
	}
}

// ---- auth ----

type stubSync struct{ calls int }

func (s *stubSync) Sync(context.Context, model.ExternalProfile) model.SyncResult {
	s.calls++
	return model.SyncResult{Created: s.calls == 1, SeededCount: 8}
}

type stubRevoker struct {
	tokens []string
	err    error
}

func (r *stubRevoker) Revoke(_ context.Context, tok string) error {
	r.tokens = append(r.tokens, tok)
	return r.err
}

type recordingDeny struct{ ids []string }

func (d *recordingDeny) Revoke(_ context.Context, id string, _ time.Time) error {
	d.ids = append(d.ids, id)
	return nil
}

func (d *recordingDeny) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func newAuth(t *testing.T, rev Revoker, deny middleware.Denylist) (*AuthHandler, *stubSync) {
	t.Helper()
	iss, err := utils.NewSessionIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	sync := &stubSync{}
	h := NewAuthHandler(iss, sync, rev, deny)
	h.RedirectURL = "/app"
	return h, sync
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestCompleteLoginSetsCookie(t *testing.T) {
	h, sync := newAuth(t, nil, nil)
	e := echo.New()
	p := model.ExternalProfile{Provider: "kakao", ID: "42", Name: "kim", Image: "https://img/p", Thumbnail: "https://img/t"}

	req := httptest.NewRequest(http.MethodGet, "/auth/kakao/callback", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.completeLogin(e.NewContext(req, rec), p, "kakao-access"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sync.calls)
	resp := decode[loginResp](t, rec)
	assert.True(t, resp.NewUser)
	assert.Equal(t, "42", resp.User.ID)

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, resp.Token, ck.Value)

	s, err := h.Issuer.Parse(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "kakao-access", s.AccessToken)
	assert.Equal(t, "https://img/t", s.Thumbnail)

	// Browsers are redirected instead.
	req = httptest.NewRequest(http.MethodGet, "/auth/kakao/callback", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.completeLogin(e.NewContext(req, rec), p, "kakao-access"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 2, sync.calls)
}

func TestLogoutSucceedsWhenRevokeFails(t *testing.T) {
	rev := &stubRevoker{err: errors.New("kakao down")}
	deny := &recordingDeny{}
	h, _ := newAuth(t, rev, deny)
	tok, err := h.Issuer.Issue(model.ExternalProfile{ID: "42"}, "kakao-access")
	require.NoError(t, err)

	e := echo.New()
	e.POST("/auth/logout", h.Logout)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tok.Token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, []string{"kakao-access"}, rev.tokens, "revoke is attempted exactly once")
	assert.Equal(t, []string{tok.ID}, deny.ids)

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}

func TestLogoutWithoutSession(t *testing.T) {
	rev := &stubRevoker{}
	h, _ := newAuth(t, rev, nil)
	e := echo.New()
	e.GET("/auth/kakao-logout", h.Logout)

	for _, raw := range []string{"", "not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/kakao-logout", nil)
		if raw != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	}
	assert.Empty(t, rev.tokens)
}

func TestLoginDisabledWithoutProvider(t *testing.T) {
	h, _ := newAuth(t, nil, nil)
	h.ProviderEnabled = false
	e := echo.New()
	e.GET("/auth/kakao/login", h.Login)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/kakao/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogoutDoneRedirects(t *testing.T) {
	h, _ := newAuth(t, nil, nil)
	h.ProviderEnabled = false
	e := echo.New()
	e.GET("/auth/kakao-logout-done", h.LogoutDone)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/kakao-logout-done", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app", rec.Header().Get(echo.HeaderLocation))
	require.NotNil(t, sessionCookie(rec))
}

func TestLandingAddsQuery(t *testing.T) {
	h := &AuthHandler{RedirectURL: "https://app.example/home?tab=1"}
	assert.Equal(t, "https://app.example/home?error=auth_failed&tab=1", h.landing("error", "auth_failed"))
	h.RedirectURL = ""
	assert.Equal(t, "/", h.landing("", ""))
}
