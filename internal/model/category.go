package model

import "time"

// Category is a user-owned expense label.  Categories are never removed by
// the normal flow; deactivation flips IsActive so historical transactions
// keep resolving to their category.
type Category struct {
	ID        string    `json:"id"`         // categories.id (uuid)
	UserID    string    `json:"user_id"`    // categories.user_id
	Name      string    `json:"name"`       // categories.name
	Color     string    `json:"color"`      // categories.color, "#RRGGBB"
	IsActive  bool      `json:"is_active"`  // categories.is_active
	CreatedAt time.Time `json:"created_at"` // categories.created_at
}

// CategorySeed is a name/colour pair used to seed a new user.
type CategorySeed struct {
	Name  string
	Color string
}

// DefaultCategories is the fixed set every first-time user receives.
var DefaultCategories = []CategorySeed{
	{Name: "식비", Color: "#FF6B6B"},
	{Name: "교통", Color: "#4ECDC4"},
	{Name: "주거", Color: "#45B7D1"},
	{Name: "통신", Color: "#96CEB4"},
	{Name: "의료", Color: "#FFEEAD"},
	{Name: "교육", Color: "#D4A5A5"},
	{Name: "여가", Color: "#9B59B6"},
	{Name: "기타", Color: "#95A5A6"},
}
