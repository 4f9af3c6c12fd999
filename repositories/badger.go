package repositories

import (
	"context"
	"fmt"

	"workspace-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

// storageErr tags an unexpected badger failure as retryable.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errors.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", errors.ErrStorage, err)
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrStorage, err)
	}
	return nil
}

// getRecord decodes the value stored at key into v. It reports false when the key does not exist.
func getRecord(txn *badger.Txn, key []byte, v any) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return unmarshal(val, v)
	})
}

func putRecord(txn *badger.Txn, key []byte, v any) error {
	data, err := marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

// scanPrefix walks every key under prefix starting at seek, in ascending order,
// until fn returns false or an error.
func scanPrefix(txn *badger.Txn, prefix, seek []byte, withValues bool, fn func(key, value []byte) (bool, error)) error {
	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	options.PrefetchValues = withValues
	it := txn.NewIterator(options)
	defer it.Close()

	if seek == nil {
		seek = prefix
	}
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var value []byte
		if withValues {
			var err error
			if value, err = item.ValueCopy(nil); err != nil {
				return err
			}
		}
		more, err := fn(item.KeyCopy(nil), value)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// Entry is a raw key/value pair, used by the inspect tool.
type Entry struct {
	Key   string
	Value []byte
}

// Dump returns up to limit raw entries under prefix. A zero limit returns everything.
func Dump(db *badger.DB, prefix string, limit int) ([]Entry, error) {
	var entries []Entry
	err := db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(prefix), nil, true, func(key, value []byte) (bool, error) {
			entries = append(entries, Entry{Key: string(key), Value: value})
			return limit <= 0 || len(entries) < limit, nil
		})
	})
	return entries, storageErr(err)
}
