package repositories

import (
	"board-lab/contract"
	"board-lab/errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var _ contract.IPhotoRepository = (*PhotoRepository)(nil)

// PhotoRepository stores the pictures placed on the whiteboard under "photo:{id}".
type PhotoRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPhotoRepository(db *badger.DB, log *slog.Logger) *PhotoRepository {
	return &PhotoRepository{db: db, log: log}
}

// SavePhoto sniffs the bytes and refuses anything that is not an image.
func (r *PhotoRepository) SavePhoto(id uuid.UUID, data []byte) (string, error) {
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("photo %s detected as %s: %w", id, mime, errors.ErrNotImage)
	}
	key := photoKey(id)
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return "", err
	}
	r.log.Debug("Photo saved", "id", id, "mime", mime, "size", len(data))
	return key, nil
}

func (r *PhotoRepository) LoadPhoto(id uuid.UUID) ([]byte, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(photoKey(id)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("photo %s: %w", id, errors.ErrNotFound)
	}
	return data, err
}

func photoKey(id uuid.UUID) string {
	return "photo:" + id.String()
}
