package ledger

import (
	"time"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

const uncategorizedKey = "uncategorized"

// CategoryDot is the compact category marker drawn in a calendar cell.
type CategoryDot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DayCell is one day of the month grid.
type DayCell struct {
	Day        int           `json:"day"`
	Income     int64         `json:"income"`
	Expense    int64         `json:"expense"`
	Count      int           `json:"count"`
	Categories []CategoryDot `json:"categories"`
}

// MonthGrid is the calendar for one month.  FirstWeekday is the weekday of
// the 1st (0 = Sunday) so clients can pad the leading cells.
type MonthGrid struct {
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	FirstWeekday int       `json:"firstWeekday"`
	DaysInMonth  int       `json:"daysInMonth"`
	Days         []DayCell `json:"days"`
}

// ExpenseGroup collects a day's expenses under one category.  Category is
// nil for the uncategorized bucket.
type ExpenseGroup struct {
	Key          string              `json:"key"`
	Category     *model.Category     `json:"category"`
	Transactions []model.Transaction `json:"transactions"`
	Total        int64               `json:"total"`
}

// DayDetail is the breakdown shown for a selected day.
type DayDetail struct {
	Day           int                 `json:"day"`
	Income        int64               `json:"income"`
	Expense       int64               `json:"expense"`
	ExpenseGroups []ExpenseGroup      `json:"expenseGroups"`
	Incomes       []model.Transaction `json:"incomes"`
}

// DayOfMonth returns the calendar day a stored instant is shown on.  The
// instant is shifted by the viewer's timezone offset (UTC minus local, as a
// browser reports it) before the day is read in the viewer's location, so a
// date saved as UTC midnight lands on the day the user picked wherever the
// calendar is viewed.
func DayOfMonth(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	_, offset := local.Zone()
	return local.Add(-time.Duration(offset) * time.Second).Day()
}

// GroupByDay buckets txs by DayOfMonth, keeping their relative order.
func GroupByDay(txs []model.Transaction, loc *time.Location) map[int][]model.Transaction {
	out := make(map[int][]model.Transaction)
	for _, t := range txs {
		d := DayOfMonth(t.TransactionDate, loc)
		out[d] = append(out[d], t)
	}
	return out
}

// BuildMonth lays txs out on a grid with one cell per day of the month.
func BuildMonth(year, month int, txs []model.Transaction, loc *time.Location) MonthGrid {
	if loc == nil {
		loc = time.UTC
	}
	days := DaysIn(year, month)
	byDay := GroupByDay(txs, loc)

	grid := MonthGrid{
		Year:         year,
		Month:        month,
		FirstWeekday: int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc).Weekday()),
		DaysInMonth:  days,
		Days:         make([]DayCell, 0, days),
	}
	for d := 1; d <= days; d++ {
		grid.Days = append(grid.Days, buildCell(d, byDay[d]))
	}
	return grid
}

func buildCell(day int, txs []model.Transaction) DayCell {
	cell := DayCell{Day: day, Count: len(txs), Categories: []CategoryDot{}}
	seen := make(map[string]bool)
	for _, t := range txs {
		if t.Type == model.TypeIncome {
			cell.Income += t.Amount
		} else {
			cell.Expense += t.Amount
		}
		if t.Category == nil || seen[t.Category.ID] {
			continue
		}
		seen[t.Category.ID] = true
		cell.Categories = append(cell.Categories, CategoryDot{
			ID:    t.Category.ID,
			Name:  t.Category.Name,
			Color: t.Category.Color,
		})
	}
	return cell
}

// BuildDay returns the detail for one day: totals, expenses grouped by
// category in first-seen order, and the income list.
func BuildDay(day int, txs []model.Transaction, loc *time.Location) DayDetail {
	detail := DayDetail{
		Day:           day,
		ExpenseGroups: []ExpenseGroup{},
		Incomes:       []model.Transaction{},
	}
	index := make(map[string]int)
	for _, t := range GroupByDay(txs, loc)[day] {
		if t.Type == model.TypeIncome {
			detail.Income += t.Amount
			detail.Incomes = append(detail.Incomes, t)
			continue
		}
		detail.Expense += t.Amount

		key := uncategorizedKey
		if t.Category != nil {
			key = t.Category.ID
		}
		i, ok := index[key]
		if !ok {
			i = len(detail.ExpenseGroups)
			index[key] = i
			detail.ExpenseGroups = append(detail.ExpenseGroups, ExpenseGroup{Key: key, Category: t.Category})
		}
		g := &detail.ExpenseGroups[i]
		g.Transactions = append(g.Transactions, t)
		g.Total += t.Amount
	}
	return detail
}
