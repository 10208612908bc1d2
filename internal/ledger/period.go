// Package ledger holds the read-side computations over a user's
// transactions: monthly period resolution, the aggregation summary and the
// calendar grouping.  Nothing in here touches storage; callers pass in the
// rows they already loaded.
package ledger

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

var (
	ErrInvalidYear  = errors.New("year must be between 1 and 9999")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// MonthRange returns the half-open UTC range covering every instant from the
// first day of the month at 00:00 through the end of its last day.
func MonthRange(year, month int) (model.DateRange, error) {
	if year < 1 || year > 9999 {
		return model.DateRange{}, ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return model.DateRange{}, ErrInvalidMonth
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return model.DateRange{From: from, To: from.AddDate(0, 1, 0)}, nil
}

// ParsePeriod turns the raw year/month query values into a date filter.
// When either value is empty the filter is nil and the full history applies.
func ParsePeriod(yearRaw, monthRaw string) (*model.DateRange, error) {
	yearRaw, monthRaw = strings.TrimSpace(yearRaw), strings.TrimSpace(monthRaw)
	if yearRaw == "" || monthRaw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		return nil, ErrInvalidYear
	}
	month, err := strconv.Atoi(monthRaw)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	r, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
