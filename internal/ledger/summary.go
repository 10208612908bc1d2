package ledger

import "github.com/iliyamo/kakao-ledger/internal/model"

// CategoryTotal is the accumulated expense amount for one category.
type CategoryTotal struct {
	Total int64  `json:"total"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TopCategory is the category with the largest expense total.
type TopCategory struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Summary is the aggregation returned by GET /api/transactions.
type Summary struct {
	Transactions   []model.Transaction      `json:"transactions"`
	CategoryTotals map[string]CategoryTotal `json:"categoryTotals"`
	TopCategory    *TopCategory             `json:"topCategory"`
	ExpenseTotal   int64                    `json:"expenseTotal"`
	IncomeTotal    int64                    `json:"incomeTotal"`
	Balance        int64                    `json:"balance"`
}

// Summarize aggregates txs in the order given.  Category totals only count
// expenses that carry a category; expenses without one still count towards
// ExpenseTotal.  The top category is the strictly largest total, so on a tie
// the category encountered first in txs wins.
func Summarize(txs []model.Transaction) Summary {
	if txs == nil {
		txs = []model.Transaction{}
	}
	s := Summary{
		Transactions:   txs,
		CategoryTotals: make(map[string]CategoryTotal),
	}

	var order []string
	for _, t := range txs {
		switch t.Type {
		case model.TypeIncome:
			s.IncomeTotal += t.Amount
		case model.TypeExpense:
			s.ExpenseTotal += t.Amount
			if t.CategoryID == nil || *t.CategoryID == "" {
				continue
			}
			id := *t.CategoryID
			ct, seen := s.CategoryTotals[id]
			if !seen {
				if t.Category != nil {
					ct.Name, ct.Color = t.Category.Name, t.Category.Color
				}
				order = append(order, id)
			}
			ct.Total += t.Amount
			s.CategoryTotals[id] = ct
		}
	}

	for _, id := range order {
		ct := s.CategoryTotals[id]
		if s.TopCategory == nil || ct.Total > s.TopCategory.Total {
			s.TopCategory = &TopCategory{ID: id, Total: ct.Total, Name: ct.Name, Color: ct.Color}
		}
	}
	s.Balance = s.IncomeTotal - s.ExpenseTotal
	return s
}
