// Package inventory owns the library collection: id uniqueness,
// add/remove/search/toggle operations, and the full rewrite of the
// backing storage after every successful mutation.
package inventory

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/library-inventory/internal/model"
)

// Store errors.
var (
	ErrDuplicateID = errors.New("item id already exists")
	ErrNotFound    = errors.New("item not found")
	ErrNilItem     = errors.New("item cannot be nil")
)

// Outcome messages for the mutating operations, shared by every front
// end so the CLI and the API report identically.
const (
	MsgItemAdded   = "Item added successfully"
	MsgItemRemoved = "Item removed successfully"
	MsgDuplicateID = "ID already exists!"
	MsgNotFound    = "Item not found"
	MsgSaveFailed  = "Failed to save library data"
)

// BorrowMessage renders the outcome of a successful borrow toggle.
func BorrowMessage(borrowed bool) string {
	return "Status updated to: " + model.StatusText(borrowed)
}

// Persister reads and writes the durable form of the collection. The
// store loads through it once at construction and rewrites the whole
// collection through it after every successful mutation.
type Persister interface {
	// Load returns the persisted items. A missing backing file is not
	// an error; implementations return an empty slice.
	Load(ctx context.Context) ([]model.Item, error)

	// Save overwrites the backing file with the given items in the
	// given order.
	Save(ctx context.Context, items []model.Item) error
}
