package actions

import (
	"context"
	"errors"
	"time"

	"conversions/auth"
	"conversions/logger"
	"conversions/models"
	"conversions/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Store is the persistence port. Every method that takes a userID matches
// rows on both id and owner.
type Store interface {
	InsertJob(ctx context.Context, job *models.ConversionJob) (*models.ConversionJob, error)
	UpdateJob(ctx context.Context, id, userID string, patch models.JobPatch) (*models.ConversionJob, error)
	FindJob(ctx context.Context, id, userID string) (*models.ConversionJob, error)
	ListJobs(ctx context.Context, userID string) ([]models.ConversionJob, error)

	InsertPreset(ctx context.Context, preset *models.ConversionPreset) (*models.ConversionPreset, error)
	UpdatePreset(ctx context.Context, id, userID string, patch models.PresetPatch) (*models.ConversionPreset, error)
	DeletePreset(ctx context.Context, id, userID string) error
	FindPreset(ctx context.Context, id, userID string) (*models.ConversionPreset, error)
	ListPresets(ctx context.Context, userID string) ([]models.ConversionPreset, error)
}

// StatusPublisher receives every job written by an action.
type StatusPublisher interface {
	Publish(ctx context.Context, job *models.ConversionJob) error
}

// LinkSigner turns a stored output reference into a downloadable URL.
type LinkSigner interface {
	PresignOutput(ref string) (string, bool, error)
}

// Service implements the job and preset actions.
type Service struct {
	store     Store
	status    StatusPublisher
	links     LinkSigner
	validator *validator.Validate
	now       func() time.Time
	newID     func() string
}

// NewService wires the actions. status and links may be nil.
func NewService(store Store, status StatusPublisher, links LinkSigner) *Service {
	return &Service{
		store:     store,
		status:    status,
		links:     links,
		validator: newValidator(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (s *Service) currentUser(ctx context.Context) (string, *Error) {
	userID, err := auth.Require(ctx)
	if err != nil {
		return "", Unauthorized()
	}
	return userID, nil
}

// storeError maps storage failures onto the action taxonomy.
func storeError(err error, what string) *Error {
	if errors.Is(err, services.ErrNotFound) {
		return NotFound(what)
	}
	return Internal(err)
}

func (s *Service) publishStatus(ctx context.Context, job *models.ConversionJob) {
	if s.status == nil {
		return
	}
	if err := s.status.Publish(ctx, job); err != nil {
		logger.Warnf("[Actions] Status mirror failed for job %s: %v", job.ID, err)
	}
}
