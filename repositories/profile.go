package repositories

import (
	"board-lab/codec"
	"board-lab/domain"
	errs "board-lab/errors"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
)

const selfProfileKey = "profile:self"

// ProfileRepository keeps the local profile across restarts, its id is the id of the hosted whiteboard.
type ProfileRepository struct {
	db        *badger.DB
	validator *validator.Validate
}

func NewProfileRepository(db *badger.DB) *ProfileRepository {
	return &ProfileRepository{db: db, validator: validator.New()}
}

func (r *ProfileRepository) SaveProfile(p domain.Profile) error {
	if err := r.validator.Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(selfProfileKey), codec.MarshalProfile(p))
	})
}

func (r *ProfileRepository) LoadProfile() (domain.Profile, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(selfProfileKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return domain.Profile{}, errs.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return codec.UnmarshalProfile(data)
}

// LoadOrCreate returns the stored profile, creating one on first launch.
// An empty nickname picks a random one. A nickname given for an existing profile renames it.
func (r *ProfileRepository) LoadOrCreate(nickname string) (domain.Profile, error) {
	p, err := r.LoadProfile()
	switch {
	case err == nil:
		if nickname == "" || nickname == p.Nickname {
			return p, nil
		}
		p.Nickname = nickname
	case errors.Is(err, errs.ErrProfileNotFound):
		if nickname == "" {
			nickname = domain.RandomNickname()
		}
		p = domain.NewProfile(nickname, domain.RandomIcon())
	default:
		return domain.Profile{}, err
	}
	if err := r.SaveProfile(p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
