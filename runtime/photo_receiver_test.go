package runtime

import (
	"board-lab/domain"
	"board-lab/errors"
	"board-lab/mocks"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPhotoReceiver_Receive(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	files := mocks.NewMockIFileStore(ctrl)
	photos := mocks.NewMockIPhotoRepository(ctrl)
	receiver := NewPhotoReceiver(slog.Default(), files, photos)
	env := domain.NewEnvelope(uuid.New(), domain.KindPhoto)

	var notified []uuid.UUID
	receiver.OnPhoto.Subscribe(func(id uuid.UUID) { notified = append(notified, id) })

	// Given the picture is available
	files.EXPECT().Load("blob").Return([]byte("png"), nil)
	photos.EXPECT().SavePhoto(env.ID, []byte("png")).Return("photo:1", nil)
	req.NoError(receiver.Receive("blob", env))
	req.Equal([]uuid.UUID{env.ID}, notified)

	// Given it is not an image
	files.EXPECT().Load("blob").Return([]byte("text"), nil)
	photos.EXPECT().SavePhoto(env.ID, []byte("text")).Return("", errors.ErrNotImage)
	req.ErrorIs(receiver.Receive("blob", env), errors.ErrNotImage)

	// Given the blob is gone
	files.EXPECT().Load("blob").Return(nil, fmt.Errorf("gone"))
	req.ErrorIs(receiver.Receive("blob", env), errors.ErrPersistenceFailure)
	req.Len(notified, 1)
}
