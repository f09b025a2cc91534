// Package model defines the catalog item variants and the data
// structures shared by the store, the API and the CLI.
package model

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind is the variant tag identifying the concrete shape of a
// catalog item. The tag is stable on the wire and in the data file.
type Kind string

// Known variant tags.
const (
	KindBook    Kind = "BOOK"
	KindJournal Kind = "JOURNAL"
)

// Record decoding errors.
var (
	ErrUnknownKind     = errors.New("unknown item type")
	ErrMalformedRecord = errors.New("malformed record")
)

// Status text used anywhere a borrowed flag is shown to a person.
const (
	StatusBorrowed  = "Borrowed"
	StatusAvailable = "Available"
)

// StatusText renders a borrowed flag the way every surface displays it.
func StatusText(borrowed bool) string {
	if borrowed {
		return StatusBorrowed
	}
	return StatusAvailable
}

// Item is one catalog entry, either a Book or a Journal. The variant
// set is closed: only types in this package satisfy the interface,
// and callers branch on Kind rather than type assertions.
type Item interface {
	Kind() Kind
	ID() int
	Title() string
	Borrowed() bool
	// ToggleBorrowed flips the borrowed flag and reports the new state.
	ToggleBorrowed() bool
	// Record produces the flat wire form used for persistence and API
	// payloads. Field names and the variant tag round-trip exactly.
	Record() Record
	// DisplayFields produces the human-labeled attributes used only by
	// presentation, never by persistence.
	DisplayFields() []DisplayField

	sealed()
}

// itemCore carries the state shared by every variant.
type itemCore struct {
	id       int
	title    string
	borrowed bool
}

func (c *itemCore) ID() int        { return c.id }
func (c *itemCore) Title() string  { return c.title }
func (c *itemCore) Borrowed() bool { return c.borrowed }

func (c *itemCore) ToggleBorrowed() bool {
	c.borrowed = !c.borrowed
	return c.borrowed
}

func (c *itemCore) sealed() {}

// Book is a catalog item written by an author with a page count.
type Book struct {
	itemCore
	author string
	pages  int
}

// NewBook builds a book that starts available. Uniqueness of the id
// is the store's concern, not the model's.
func NewBook(id int, title, author string, pages int) *Book {
	return &Book{
		itemCore: itemCore{id: id, title: title},
		author:   author,
		pages:    pages,
	}
}

// Kind returns KindBook.
func (b *Book) Kind() Kind { return KindBook }

// Author returns the book's author.
func (b *Book) Author() string { return b.author }

// Pages returns the page count. No range is enforced.
func (b *Book) Pages() int { return b.pages }

// Record implements Item.
func (b *Book) Record() Record {
	id, title := b.id, b.title
	author, pages := b.author, b.pages
	return Record{
		Type:     KindBook,
		ID:       &id,
		Title:    &title,
		Author:   &author,
		Pages:    &pages,
		Borrowed: b.borrowed,
	}
}

// DisplayFields implements Item.
func (b *Book) DisplayFields() []DisplayField {
	return []DisplayField{
		{Label: "ID", Value: strconv.Itoa(b.id)},
		{Label: "Type", Value: "Book"},
		{Label: "Title", Value: b.title},
		{Label: "Author", Value: b.author},
		{Label: "Pages", Value: strconv.Itoa(b.pages)},
		{Label: "Status", Value: StatusText(b.borrowed)},
	}
}

// Journal is a catalog item issued by a publisher with a volume number.
type Journal struct {
	itemCore
	publisher string
	volume    int
}

// NewJournal builds a journal that starts available.
func NewJournal(id int, title, publisher string, volume int) *Journal {
	return &Journal{
		itemCore:  itemCore{id: id, title: title},
		publisher: publisher,
		volume:    volume,
	}
}

// Kind returns KindJournal.
func (j *Journal) Kind() Kind { return KindJournal }

// Publisher returns the journal's publisher.
func (j *Journal) Publisher() string { return j.publisher }

// Volume returns the volume number. No range is enforced.
func (j *Journal) Volume() int { return j.volume }

// Record implements Item.
func (j *Journal) Record() Record {
	id, title := j.id, j.title
	publisher, volume := j.publisher, j.volume
	return Record{
		Type:      KindJournal,
		ID:        &id,
		Title:     &title,
		Publisher: &publisher,
		Volume:    &volume,
		Borrowed:  j.borrowed,
	}
}

// DisplayFields implements Item.
func (j *Journal) DisplayFields() []DisplayField {
	return []DisplayField{
		{Label: "ID", Value: strconv.Itoa(j.id)},
		{Label: "Type", Value: "Journal"},
		{Label: "Title", Value: j.title},
		{Label: "Publisher", Value: j.publisher},
		{Label: "Volume", Value: strconv.Itoa(j.volume)},
		{Label: "Status", Value: StatusText(j.borrowed)},
	}
}

// Record is the flat wire form of an item as persisted to disk and
// served over the API. Variant-specific fields are pointers with
// omitempty so a record only carries the keys of its own variant and
// zero values such as pages: 0 still round-trip. A missing
// is_borrowed key decodes as false.
type Record struct {
	Type      Kind    `json:"type"`
	ID        *int    `json:"id"`
	Title     *string `json:"title"`
	Author    *string `json:"author,omitempty"`
	Pages     *int    `json:"pages,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
	Volume    *int    `json:"volume,omitempty"`
	Borrowed  bool    `json:"is_borrowed"`
}

// ItemFromRecord rebuilds the concrete item a record describes.
// An unrecognized variant tag yields ErrUnknownKind so loaders can
// skip the record; a missing required field yields an error wrapping
// ErrMalformedRecord that names the field.
func ItemFromRecord(rec Record) (Item, error) {
	if rec.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedRecord)
	}

	switch rec.Type {
	case KindBook, KindJournal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(rec.Type))
	}

	if rec.ID == nil {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if rec.Title == nil {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedRecord)
	}

	if rec.Type == KindBook {
		if rec.Author == nil {
			return nil, fmt.Errorf("%w: book %d missing author", ErrMalformedRecord, *rec.ID)
		}
		if rec.Pages == nil {
			return nil, fmt.Errorf("%w: book %d missing pages", ErrMalformedRecord, *rec.ID)
		}
		book := NewBook(*rec.ID, *rec.Title, *rec.Author, *rec.Pages)
		book.borrowed = rec.Borrowed
		return book, nil
	}

	if rec.Publisher == nil {
		return nil, fmt.Errorf("%w: journal %d missing publisher", ErrMalformedRecord, *rec.ID)
	}
	if rec.Volume == nil {
		return nil, fmt.Errorf("%w: journal %d missing volume", ErrMalformedRecord, *rec.ID)
	}
	journal := NewJournal(*rec.ID, *rec.Title, *rec.Publisher, *rec.Volume)
	journal.borrowed = rec.Borrowed
	return journal, nil
}

// RecordsOf converts a sequence of items to their wire records,
// preserving order. The result is never nil so it marshals as [].
func RecordsOf(items []Item) []Record {
	records := make([]Record, 0, len(items))
	for _, it := range items {
		records = append(records, it.Record())
	}
	return records
}

// DisplayField is one human-labeled attribute of an item.
type DisplayField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Stats summarizes the collection for the stats query.
type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Borrowed  int `json:"borrowed"`
}
