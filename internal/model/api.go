package model

import (
	"errors"
	"time"
)

// Validation errors for incoming item payloads. The store accepts any
// strings; these checks belong to the interactive surfaces.
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEmptyAuthor    = errors.New("author cannot be empty")
	ErrEmptyPublisher = errors.New("publisher cannot be empty")
)

// AddBookRequest is the payload for adding a book to the catalog.
type AddBookRequest struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Pages  int    `json:"pages"`
}

// Validate checks the payload the way the interactive front ends do.
// Page counts are deliberately unchecked.
func (r *AddBookRequest) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Author == "" {
		return ErrEmptyAuthor
	}
	return nil
}

// Item builds the catalog entry the request describes.
func (r *AddBookRequest) Item() Item {
	return NewBook(r.ID, r.Title, r.Author, r.Pages)
}

// AddJournalRequest is the payload for adding a journal to the catalog.
type AddJournalRequest struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Volume    int    `json:"volume"`
}

// Validate checks the payload the way the interactive front ends do.
// Volume numbers are deliberately unchecked.
func (r *AddJournalRequest) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Publisher == "" {
		return ErrEmptyPublisher
	}
	return nil
}

// Item builds the catalog entry the request describes.
func (r *AddJournalRequest) Item() Item {
	return NewJournal(r.ID, r.Title, r.Publisher, r.Volume)
}

// APIResponse is the envelope every HTTP response uses: the success
// flag and human-readable message expected by front ends, plus an
// optional payload.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates a failed API response.
func NewErrorResponse[T any](message string) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Message: message,
	}
}

// Event types broadcast on the WebSocket stream.
const (
	EventItemAdded   = "item_added"
	EventItemRemoved = "item_removed"
	EventItemToggled = "item_toggled"
)

// Event is one inventory change pushed to WebSocket subscribers so a
// connected UI can refresh its view without polling.
type Event struct {
	Type      string    `json:"type"`
	Item      *Record   `json:"item,omitempty"`
	Stats     Stats     `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds a broadcast event for one mutation outcome.
func NewEvent(eventType string, item Item, stats Stats) Event {
	ev := Event{
		Type:      eventType,
		Stats:     stats,
		Timestamp: time.Now().UTC(),
	}
	if item != nil {
		rec := item.Record()
		ev.Item = &rec
	}
	return ev
}
