package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/library-inventory/internal/model"
)

// Store is the owning collection of all catalog items, keyed by id.
// It is the only component that touches the persister.
type Store struct {
	mu        sync.RWMutex
	items     map[int]model.Item
	persister Persister
	logger    *zap.Logger
}

// New creates a Store populated from the persister. Load problems are
// logged and leave the store empty or partially populated; they never
// fail construction.
func New(ctx context.Context, p Persister, logger *zap.Logger) *Store {
	s := &Store{
		items:     make(map[int]model.Item),
		persister: p,
		logger:    logger,
	}

	items, err := p.Load(ctx)
	if err != nil {
		logger.Error("failed to load inventory", zap.Error(err))
		return s
	}

	for _, item := range items {
		if _, exists := s.items[item.ID()]; exists {
			logger.Warn("duplicate id in data file, keeping the first record",
				zap.Int("id", item.ID()))
			continue
		}
		s.items[item.ID()] = item
	}

	return s
}

// Add inserts a new item and rewrites the backing file. Fails with
// ErrDuplicateID when the id is already taken, leaving the collection
// and the file untouched.
func (s *Store) Add(ctx context.Context, item model.Item) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("add item: %w", ctx.Err())
	default:
	}

	if item == nil {
		return ErrNilItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID()]; exists {
		return ErrDuplicateID
	}

	s.items[item.ID()] = item

	return s.persistLocked(ctx)
}

// Remove deletes the item with the given id, rewrites the backing
// file and returns the removed item. Fails with ErrNotFound when the
// id is absent.
func (s *Store) Remove(ctx context.Context, id int) (model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("remove item: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}

	delete(s.items, id)

	if err := s.persistLocked(ctx); err != nil {
		return item, err
	}

	return item, nil
}

// ToggleBorrow flips the borrowed flag of the item with the given id,
// rewrites the backing file and reports the new state. Fails with
// ErrNotFound when the id is absent.
func (s *Store) ToggleBorrow(ctx context.Context, id int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("toggle borrow: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return false, ErrNotFound
	}

	borrowed := item.ToggleBorrowed()

	if err := s.persistLocked(ctx); err != nil {
		return borrowed, err
	}

	return borrowed, nil
}

// Search returns the items whose title contains the keyword as a
// case-insensitive substring, ordered by id. An empty keyword matches
// everything; no match yields an empty slice, never an error.
func (s *Store) Search(ctx context.Context, keyword string) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("search items: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(keyword)

	matches := make([]model.Item, 0)
	for _, item := range s.sortedLocked() {
		if strings.Contains(strings.ToLower(item.Title()), needle) {
			matches = append(matches, item)
		}
	}

	return matches, nil
}

// ListAll returns every item ordered by id. Read-only; the backing
// file is not touched.
func (s *Store) ListAll(ctx context.Context) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedLocked(), nil
}

// Get returns the item with the given id. Absence is reported through
// the boolean, never as an error.
func (s *Store) Get(id int) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	return item, exists
}

// Stats counts the collection. Read-only.
func (s *Store) Stats() model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.Stats{Total: len(s.items)}
	for _, item := range s.items {
		if item.Borrowed() {
			stats.Borrowed++
		} else {
			stats.Available++
		}
	}

	return stats
}

// Len reports the number of items in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Persist rewrites the backing file with the current collection
// without mutating it. Useful on teardown; every mutating operation
// already persists on success.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.persistLocked(ctx)
}

// persistLocked dumps the whole collection, ordered by id, through
// the persister. Callers must hold the lock. A failed write is logged
// and returned; the in-memory change stays applied.
func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.sortedLocked()); err != nil {
		s.logger.Error("failed to persist inventory", zap.Error(err))
		return fmt.Errorf("persist inventory: %w", err)
	}
	return nil
}

// sortedLocked returns the items ordered by ascending id. Map
// iteration order changes between runs, so every sequence the store
// hands out goes through this to stay consistent.
func (s *Store) sortedLocked() []model.Item {
	ids := make([]int, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, s.items[id])
	}

	return items
}
