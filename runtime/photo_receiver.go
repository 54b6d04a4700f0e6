package runtime

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// PhotoReceiver stores pictures shared by peers so photo objects can be rendered.
type PhotoReceiver struct {
	log    *slog.Logger
	files  contract.IFileStore
	photos contract.IPhotoRepository

	OnPhoto Bus[uuid.UUID]
}

func NewPhotoReceiver(log *slog.Logger, files contract.IFileStore, photos contract.IPhotoRepository) *PhotoReceiver {
	return &PhotoReceiver{log: log, files: files, photos: photos}
}

func (r *PhotoReceiver) Receive(location string, env domain.DataEnvelope) error {
	if env.IsDeleted {
		r.log.Debug("Photo deletion ignored, photos outlive their objects", "id", env.ID)
		return nil
	}
	data, err := r.files.Load(location)
	if err != nil {
		return fmt.Errorf("load photo %s: %w: %w", env.ID, err, errors.ErrPersistenceFailure)
	}
	if _, err := r.photos.SavePhoto(env.ID, data); err != nil {
		return fmt.Errorf("save photo %s: %w", env.ID, err)
	}
	r.OnPhoto.Publish(env.ID)
	return nil
}
