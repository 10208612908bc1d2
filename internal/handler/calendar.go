package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/ledger"
	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/repository"
)

// CalendarHandler serves the month grid and day detail views.
type CalendarHandler struct {
	Txs        repository.TransactionStore
	DefaultLoc *time.Location
	Errors     Errors
	now        func() time.Time
}

func NewCalendarHandler(txs repository.TransactionStore, loc *time.Location, errs Errors) *CalendarHandler {
	if txs == nil {
		panic("nil transaction store passed to NewCalendarHandler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarHandler{Txs: txs, DefaultLoc: loc, Errors: errs, now: time.Now}
}

type calendarResp struct {
	Calendar     ledger.MonthGrid `json:"calendar"`
	ExpenseTotal int64            `json:"expenseTotal"`
	IncomeTotal  int64            `json:"incomeTotal"`
	Balance      int64            `json:"balance"`
}

// request resolves the viewer location and the month being viewed.
// year and month default to the current month in that location.
func (h *CalendarHandler) request(c echo.Context) (year, month int, loc *time.Location, err error) {
	loc = h.DefaultLoc
	if tz := strings.TrimSpace(c.QueryParam("tz")); tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return 0, 0, nil, invalid("unknown timezone " + strconv.Quote(tz))
		}
	}
	today := h.now().In(loc)
	year, month = today.Year(), int(today.Month())

	if raw := strings.TrimSpace(c.QueryParam("year")); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			return 0, 0, nil, invalid(ledger.ErrInvalidYear.Error())
		}
	}
	if raw := strings.TrimSpace(c.QueryParam("month")); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			return 0, 0, nil, invalid(ledger.ErrInvalidMonth.Error())
		}
	}
	return year, month, loc, nil
}

func (h *CalendarHandler) monthTransactions(c echo.Context, userID string, year, month int) ([]model.Transaction, error) {
	period, err := ledger.MonthRange(year, month)
	if err != nil {
		return nil, invalid(err.Error())
	}
	return h.Txs.List(c.Request().Context(), userID, &period)
}

// Month handles GET /api/calendar?year=&month=&tz=.
func (h *CalendarHandler) Month(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "fetch calendar", "", err)
	}
	year, month, loc, err := h.request(c)
	if err != nil {
		return h.Errors.respond(c, "fetch calendar", "", err)
	}
	txs, err := h.monthTransactions(c, s.UserID, year, month)
	if err != nil {
		return h.Errors.respond(c, "fetch calendar", "", err)
	}

	sum := ledger.Summarize(txs)
	return c.JSON(http.StatusOK, calendarResp{
		Calendar:     ledger.BuildMonth(year, month, txs, loc),
		ExpenseTotal: sum.ExpenseTotal,
		IncomeTotal:  sum.IncomeTotal,
		Balance:      sum.Balance,
	})
}

// Day handles GET /api/calendar/days/:day?year=&month=&tz=.
func (h *CalendarHandler) Day(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return h.Errors.respond(c, "fetch day", "", err)
	}
	year, month, loc, err := h.request(c)
	if err != nil {
		return h.Errors.respond(c, "fetch day", "", err)
	}
	txs, err := h.monthTransactions(c, s.UserID, year, month)
	if err != nil {
		return h.Errors.respond(c, "fetch day", "", err)
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 || day > ledger.DaysIn(year, month) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day is out of range for the month"})
	}
	return c.JSON(http.StatusOK, ledger.BuildDay(day, txs, loc))
}
