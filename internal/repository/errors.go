// Package repository defines the stores behind the ledger API and the
// sentinel errors they share.  Handlers match these values with errors.Is
// and map them to HTTP statuses: ErrNotFound covers both "no such row" and
// "row owned by someone else" so a caller cannot tell whether another
// user owns an id.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist for the given owner.
// Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrCategoryInactive is returned when an expense references a category
// that has been deactivated.
var ErrCategoryInactive = errors.New("category is inactive")
