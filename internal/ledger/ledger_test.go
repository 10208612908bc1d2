package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

func strPtr(s string) *string { return &s }

func expense(id string, amount int64, cat *model.Category, at time.Time) model.Transaction {
	t := model.Transaction{ID: id, UserID: "u1", Amount: amount, Type: model.TypeExpense, TransactionDate: at, Category: cat}
	if cat != nil {
		t.CategoryID = strPtr(cat.ID)
	}
	return t
}

func income(id string, amount int64, at time.Time) model.Transaction {
	return model.Transaction{ID: id, UserID: "u1", Amount: amount, Type: model.TypeIncome, TransactionDate: at}
}

var (
	food    = &model.Category{ID: "c-food", Name: "식비", Color: "#FF6B6B", IsActive: true}
	transit = &model.Category{ID: "c-transit", Name: "교통", Color: "#4ECDC4", IsActive: true}
)

func TestMonthRange(t *testing.T) {
	r, err := MonthRange(2025, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), r.To)

	assert.True(t, r.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2025, 3, 31, 23, 59, 59, 999_000_000, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)))

	dec, err := MonthRange(2024, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), dec.To)

	_, err = MonthRange(2025, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = MonthRange(2025, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestParsePeriod(t *testing.T) {
	r, err := ParsePeriod("", "3")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = ParsePeriod("2025", "")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = ParsePeriod("2025", "03")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, time.March, r.From.Month())

	_, err = ParsePeriod("abc", "3")
	assert.ErrorIs(t, err, ErrInvalidYear)
	_, err = ParsePeriod("2025", "x")
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = ParsePeriod("2025", "13")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2025, 3))
	assert.Equal(t, 28, DaysIn(2025, 2))
	assert.Equal(t, 29, DaysIn(2024, 2))
	assert.Equal(t, 30, DaysIn(2025, 4))
}

func TestSummarize(t *testing.T) {
	at := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		expense("t1", 5000, food, at),
		expense("t2", 20000, transit, at),
		income("t3", 100000, at),
	}

	s := Summarize(txs)
	assert.Equal(t, int64(25000), s.ExpenseTotal)
	assert.Equal(t, int64(100000), s.IncomeTotal)
	assert.Equal(t, int64(75000), s.Balance)
	assert.Len(t, s.Transactions, 3)

	require.Len(t, s.CategoryTotals, 2)
	assert.Equal(t, CategoryTotal{Total: 5000, Name: "식비", Color: "#FF6B6B"}, s.CategoryTotals["c-food"])
	assert.Equal(t, CategoryTotal{Total: 20000, Name: "교통", Color: "#4ECDC4"}, s.CategoryTotals["c-transit"])

	require.NotNil(t, s.TopCategory)
	assert.Equal(t, "c-transit", s.TopCategory.ID)
	assert.Equal(t, int64(20000), s.TopCategory.Total)
	assert.Equal(t, "교통", s.TopCategory.Name)
}

func TestSummarizeTieKeepsFirstSeen(t *testing.T) {
	at := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	s := Summarize([]model.Transaction{
		expense("t1", 3000, transit, at),
		expense("t2", 3000, food, at),
	})
	require.NotNil(t, s.TopCategory)
	assert.Equal(t, "c-transit", s.TopCategory.ID)
}

func TestSummarizeUncategorizedExpense(t *testing.T) {
	at := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	s := Summarize([]model.Transaction{
		expense("t1", 7000, nil, at),
		income("t2", 1000, at),
	})
	assert.Equal(t, int64(7000), s.ExpenseTotal)
	assert.Empty(t, s.CategoryTotals)
	assert.Nil(t, s.TopCategory)
	assert.Equal(t, int64(-6000), s.Balance)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.NotNil(t, s.Transactions)
	assert.Empty(t, s.Transactions)
	assert.NotNil(t, s.CategoryTotals)
	assert.Nil(t, s.TopCategory)
	assert.Zero(t, s.Balance)
}

func TestDayOfMonth(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	midnight := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DayOfMonth(midnight, ny))
	assert.Equal(t, 10, DayOfMonth(midnight, seoul))
	assert.Equal(t, 10, DayOfMonth(midnight, time.UTC))
	assert.Equal(t, 10, DayOfMonth(midnight, nil))

	late := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 10, DayOfMonth(late, seoul))
	assert.Equal(t, 10, DayOfMonth(late, ny))
}

func TestBuildMonth(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d10 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	d11 := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		expense("t1", 5000, food, d10),
		expense("t2", 1000, food, d10),
		expense("t3", 2000, transit, d10),
		income("t4", 50000, d11),
	}

	grid := BuildMonth(2025, 3, txs, ny)
	assert.Equal(t, 31, grid.DaysInMonth)
	require.Len(t, grid.Days, 31)
	assert.Equal(t, int(time.Saturday), grid.FirstWeekday)

	cell := grid.Days[9]
	assert.Equal(t, 10, cell.Day)
	assert.Equal(t, int64(8000), cell.Expense)
	assert.Zero(t, cell.Income)
	assert.Equal(t, 3, cell.Count)
	require.Len(t, cell.Categories, 2)
	assert.Equal(t, "c-food", cell.Categories[0].ID)
	assert.Equal(t, "c-transit", cell.Categories[1].ID)

	assert.Equal(t, int64(50000), grid.Days[10].Income)
	assert.Empty(t, grid.Days[10].Categories)

	assert.Zero(t, grid.Days[0].Count)
	assert.NotNil(t, grid.Days[0].Categories)
}

func TestBuildDay(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		expense("t1", 5000, food, d),
		expense("t2", 700, nil, d),
		expense("t3", 1000, food, d),
		income("t4", 30000, d),
		expense("t5", 9999, food, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)),
	}

	detail := BuildDay(10, txs, time.UTC)
	assert.Equal(t, int64(6700), detail.Expense)
	assert.Equal(t, int64(30000), detail.Income)
	require.Len(t, detail.Incomes, 1)

	require.Len(t, detail.ExpenseGroups, 2)
	assert.Equal(t, "c-food", detail.ExpenseGroups[0].Key)
	assert.Equal(t, int64(6000), detail.ExpenseGroups[0].Total)
	assert.Len(t, detail.ExpenseGroups[0].Transactions, 2)
	assert.Equal(t, "uncategorized", detail.ExpenseGroups[1].Key)
	assert.Nil(t, detail.ExpenseGroups[1].Category)
	assert.Equal(t, int64(700), detail.ExpenseGroups[1].Total)

	empty := BuildDay(20, txs, time.UTC)
	assert.Empty(t, empty.ExpenseGroups)
	assert.Empty(t, empty.Incomes)
}
