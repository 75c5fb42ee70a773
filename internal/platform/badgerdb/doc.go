package badgerdb

import (
	"encoding/json"
	"errors"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// IDLength matches the length of Firestore auto-generated document IDs.
const IDLength = 20

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// NewID returns a 20 character alphanumeric identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:IDLength]
}

// Key returns the storage key for a document.
func Key(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

func prefix(collection string) []byte {
	return []byte(collection + "/")
}

// Get loads the document into v.
func Get(txn *badger.Txn, collection, id string, v any) error {
	item, err := txn.Get(Key(collection, id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// Put writes v as the document body, replacing any previous value.
func Put(txn *badger.Txn, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(Key(collection, id), data)
}

// Delete removes a document, returning ErrNotFound when it is absent.
func Delete(txn *badger.Txn, collection, id string) error {
	key := Key(collection, id)
	if _, err := txn.Get(key); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return txn.Delete(key)
}

// Each decodes every document in the collection in key order and calls fn
// with its id. Iteration stops at the first error.
func Each[T any](txn *badger.Txn, collection string, fn func(id string, doc T) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := prefix(collection)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		id := strings.TrimPrefix(string(item.Key()), string(p))

		var doc T
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return err
		}
		if err := fn(id, doc); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of documents in the collection.
func Count(txn *badger.Txn, collection string) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	p := prefix(collection)
	n := 0
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		n++
	}
	return n, nil
}
