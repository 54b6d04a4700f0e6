package storage

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var _ contract.IFileStore = (*FileStore)(nil)

// FileStore keeps envelope payloads as badger blobs. The location handed out is the key.
type FileStore struct {
	mu   sync.Mutex
	last int64
	db   *badger.DB
	now  func() time.Time
}

func NewFileStore(db *badger.DB) *FileStore {
	return &FileStore{db: db, now: time.Now}
}

// Save writes the payload under "blob:{kind}:{id}:{timestamp_padded}".
// Every save gets its own key, an object saved twice keeps both revisions.
func (f *FileStore) Save(env domain.DataEnvelope, payload []byte) (string, error) {
	key := fmt.Sprintf("blob:%s:%s:%019d", env.Kind, env.ID, f.stamp())
	err := f.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// stamp is strictly increasing so two saves never share a key.
func (f *FileStore) stamp() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := f.now().UnixNano()
	if ts <= f.last {
		ts = f.last + 1
	}
	f.last = ts
	return ts
}

func (f *FileStore) Load(location string) ([]byte, error) {
	var payload []byte
	err := f.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(location))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("blob %s: %w", location, errors.ErrNotFound)
	}
	return payload, err
}

// OpenInMemory opens a badger instance without disk files, used by tests and the memory transport.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
}
