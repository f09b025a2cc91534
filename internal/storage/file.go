// Package storage persists the library collection as a JSON file.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/library-inventory/internal/model"
)

// DefaultFileName is the data file used when no path is configured,
// relative to the working directory.
const DefaultFileName = "library_data.json"

// filePerm is the mode for newly created data files.
const filePerm = 0o644

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore reads and writes the whole collection as an indented JSON
// array of flat records, one file per store.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Save overwrites the backing file with the given items in the given
// order. The file is rewritten in place; a failed write may leave it
// truncated, which is within the documented durability model.
func (f *FileStore) Save(ctx context.Context, items []model.Item) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("save inventory: %w", ctx.Err())
	default:
	}

	data, err := json.MarshalIndent(model.RecordsOf(items), "", "  ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}

	if err := os.WriteFile(f.path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	return nil
}

// Load reads the backing file and rebuilds its items. A missing file
// yields an empty collection, not an error. A file that is not a JSON
// array at all is logged and treated as empty. Records that fail to
// decode or lack required fields are dropped with a warning; records
// with an unrecognized variant tag are skipped quietly. Sibling
// records always survive a bad one.
func (f *FileStore) Load(ctx context.Context) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load inventory: %w", ctx.Err())
	default:
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var raws []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		f.logger.Error("data file is not a JSON array, starting empty",
			zap.String("path", f.path), zap.Error(err))
		return []model.Item{}, nil
	}

	items := make([]model.Item, 0, len(raws))
	for i, raw := range raws {
		item, err := decodeRecord(raw)
		if err != nil {
			if errors.Is(err, model.ErrUnknownKind) {
				f.logger.Debug("skipping record with unknown type",
					zap.Int("index", i), zap.Error(err))
			} else {
				f.logger.Warn("dropping malformed record",
					zap.Int("index", i), zap.Error(err))
			}
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// decodeRecord turns one raw array element into an item.
func decodeRecord(raw jsoniter.RawMessage) (model.Item, error) {
	var rec model.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedRecord, err)
	}
	return model.ItemFromRecord(rec)
}
