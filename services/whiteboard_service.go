package services

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
	"board-lab/runtime"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Censor masks forbidden words, moderation.Moderator for instance.
type Censor interface {
	Censor(text string) (string, []string)
}

// WhiteboardService builds objects from user gestures and hands them to the engine.
type WhiteboardService struct {
	engine      *runtime.Engine
	photos      contract.IPhotoRepository
	broadcaster contract.IBroadcaster
	textSize    domain.Size
	censor      Censor
}

func NewWhiteboardService(engine *runtime.Engine, photos contract.IPhotoRepository,
	broadcaster contract.IBroadcaster, textSize domain.Size) *WhiteboardService {
	return &WhiteboardService{engine: engine, photos: photos, broadcaster: broadcaster, textSize: textSize}
}

// WithCensor masks text boxes before they are committed.
func (s *WhiteboardService) WithCensor(censor Censor) *WhiteboardService {
	s.censor = censor
	return s
}

func (s *WhiteboardService) clean(text string) string {
	if s.censor == nil {
		return text
	}
	text, _ = s.censor.Censor(text)
	return text
}

// AddText places a text box holding text, centred on center. Negative coordinates clamp to zero.
func (s *WhiteboardService) AddText(center domain.Point, text string) (domain.WhiteboardObject, error) {
	obj := domain.NewWhiteboardObject(domain.ObjectText, clamp(center), s.textSize)
	obj.Text = s.clean(text)
	if err := s.engine.AddObject(obj); err != nil {
		return domain.WhiteboardObject{}, err
	}
	return obj, nil
}

// AddDrawing turns a stroke into an object centred on the stroke's bounding box.
func (s *WhiteboardService) AddDrawing(points []domain.Point) (domain.WhiteboardObject, error) {
	if len(points) == 0 {
		return domain.WhiteboardObject{}, fmt.Errorf("empty stroke")
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	center := domain.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	obj := domain.NewWhiteboardObject(domain.ObjectDrawing, clamp(center), domain.Size{Width: maxX - minX, Height: maxY - minY})
	obj.Points = append([]domain.Point(nil), points...)
	if err := s.engine.AddObject(obj); err != nil {
		return domain.WhiteboardObject{}, err
	}
	return obj, nil
}

// AddPhoto stores the picture, ships its bytes to the peers and then places the object
// referencing it. A photo that is not an image is refused before anything is sent, and no
// object is placed when the bytes cannot be queued.
func (s *WhiteboardService) AddPhoto(data []byte, center domain.Point, size domain.Size) (domain.WhiteboardObject, error) {
	photoID := uuid.New()
	if _, err := s.photos.SavePhoto(photoID, data); err != nil {
		return domain.WhiteboardObject{}, err
	}
	shared := s.broadcaster.Enqueue(contract.Outgoing{
		Envelope: domain.NewEnvelope(photoID, domain.KindPhoto),
		Payload:  data,
	})
	if !shared {
		return domain.WhiteboardObject{}, fmt.Errorf("share photo %s: %w", photoID, errors.ErrBackpressure)
	}
	obj := domain.NewWhiteboardObject(domain.ObjectPhoto, clamp(center), size)
	obj.PhotoID = photoID
	if err := s.engine.AddObject(obj); err != nil {
		return domain.WhiteboardObject{}, err
	}
	return obj, nil
}

// Move changes the position of an object the local profile may edit.
func (s *WhiteboardService) Move(id uuid.UUID, to domain.Point) error {
	obj, ok := s.engine.Lookup(id)
	if !ok {
		return fmt.Errorf("move %s: %w", id, errors.ErrNotFound)
	}
	obj.Position = clamp(to)
	return s.engine.UpdateObject(obj)
}

// Edit replaces the content of a text object.
func (s *WhiteboardService) Edit(id uuid.UUID, text string) error {
	obj, ok := s.engine.Lookup(id)
	if !ok {
		return fmt.Errorf("edit %s: %w", id, errors.ErrNotFound)
	}
	obj.Text = s.clean(text)
	return s.engine.UpdateObject(obj)
}

func (s *WhiteboardService) Remove(id uuid.UUID) error {
	return s.engine.RemoveObject(id)
}

func (s *WhiteboardService) Select(id uuid.UUID) error {
	return s.engine.Select(id)
}

func (s *WhiteboardService) Deselect() {
	s.engine.Deselect()
}

func (s *WhiteboardService) Objects() []domain.WhiteboardObject {
	return s.engine.Objects()
}

func (s *WhiteboardService) Selected() (uuid.UUID, bool) {
	return s.engine.SelectedID()
}

func clamp(p domain.Point) domain.Point {
	return domain.Point{X: max(p.X, 0), Y: max(p.Y, 0)}
}
