package service

import (
	"context"
	"errors"
	"time"

	"petcircle_backend/internal/events"
	"petcircle_backend/internal/rehoming/repository"
	"petcircle_backend/internal/rehoming/transport"
	"petcircle_backend/platform/apperr"
	"petcircle_backend/platform/logger"

	"github.com/google/uuid"
)

// Store provides the persistence operations the service needs.
type Store interface {
	Create(ctx context.Context, iv *repository.Intervention) (*repository.Intervention, error)
	GetActiveBySubject(ctx context.Context, subjectID, ownerID uuid.UUID) (*repository.Intervention, error)
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*repository.Intervention, error)
	MarkProceeded(ctx context.Context, id, ownerID uuid.UUID, proceededAt time.Time) (*repository.Intervention, error)
}

// Service provides business logic for rehoming interventions
type Service struct {
	store    Store
	eventBus events.Bus
	log      *logger.Logger

	coolingPeriod time.Duration
	now           func() time.Time
}

// New creates a new rehoming service
func New(store Store, eventBus events.Bus, log *logger.Logger, coolingPeriod time.Duration) *Service {
	return &Service{
		store:         store,
		eventBus:      eventBus,
		log:           log,
		coolingPeriod: coolingPeriod,
		now:           time.Now,
	}
}

// Create records a completed intervention submission. Immediate urgency
// skips the cooling period; every other bucket starts one. When the owner
// already has an active intervention for the subject the existing record is
// returned unchanged and created is false, so repeated submissions stay
// harmless.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, ownerEmail string, req transport.CreateInterventionRequest) (*transport.InterventionResponse, bool, error) {
	iv := &repository.Intervention{
		ID:                    uuid.New(),
		SubjectID:             req.SubjectID,
		OwnerID:               ownerID,
		Status:                string(transport.InterventionStatusCooling),
		ReasonCode:            req.ReasonCode,
		UrgencyBucket:         req.UrgencyBucket,
		ResourcesViewed:       req.ResourcesViewed,
		ResourcesAcknowledged: req.ResourcesAcknowledged,
		ReasonText:            req.ReasonText,
		AcknowledgedAt:        req.AcknowledgedAt,
	}

	if req.UrgencyBucket == "immediate" {
		iv.Status = string(transport.InterventionStatusStarted)
	} else {
		until := s.now().Add(s.coolingPeriod)
		iv.CoolingUntil = &until
	}

	created, err := s.store.Create(ctx, iv)
	if errors.Is(err, repository.ErrDuplicateActive) {
		existing, getErr := s.store.GetActiveBySubject(ctx, req.SubjectID, ownerID)
		if getErr != nil {
			return nil, false, getErr
		}
		if existing == nil {
			return nil, false, apperr.Internal("duplicate intervention vanished during create")
		}
		return toResponse(existing), false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.log.Info("intervention created",
		"interventionId", created.ID,
		"subjectId", created.SubjectID,
		"status", created.Status,
	)

	event := events.InterventionSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: created.ID,
		SubjectID:      created.SubjectID,
		OwnerID:        created.OwnerID,
		OwnerEmail:     ownerEmail,
		Status:         created.Status,
	}
	if created.CoolingUntil != nil {
		formatted := created.CoolingUntil.UTC().Format(time.RFC3339)
		event.CoolingUntil = &formatted
	}
	s.eventBus.Publish(ctx, event)

	return toResponse(created), true, nil
}

// GetActive returns the owner's non-proceeded intervention for a subject,
// or nil when none exists.
func (s *Service) GetActive(ctx context.Context, ownerID, subjectID uuid.UUID) (*transport.InterventionResponse, error) {
	iv, err := s.store.GetActiveBySubject(ctx, subjectID, ownerID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, nil
	}
	return toResponse(iv), nil
}

// Proceed moves an intervention into the terminal proceeded status. Calling
// it on an already-proceeded record succeeds without changing anything and
// without republishing the proceeded event.
func (s *Service) Proceed(ctx context.Context, ownerID uuid.UUID, ownerEmail string, id uuid.UUID) (*transport.InterventionResponse, error) {
	current, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if current.Status == string(transport.InterventionStatusProceeded) {
		return toResponse(current), nil
	}

	updated, err := s.store.MarkProceeded(ctx, id, ownerID, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("intervention proceeded", "interventionId", updated.ID, "subjectId", updated.SubjectID)

	s.eventBus.Publish(ctx, events.InterventionProceeded{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: updated.ID,
		SubjectID:      updated.SubjectID,
		OwnerID:        updated.OwnerID,
		OwnerEmail:     ownerEmail,
	})

	return toResponse(updated), nil
}

func toResponse(iv *repository.Intervention) *transport.InterventionResponse {
	return &transport.InterventionResponse{
		ID:                    iv.ID,
		SubjectID:             iv.SubjectID,
		OwnerID:               iv.OwnerID,
		Status:                transport.InterventionStatus(iv.Status),
		ReasonCode:            iv.ReasonCode,
		UrgencyBucket:         iv.UrgencyBucket,
		ResourcesViewed:       iv.ResourcesViewed,
		ResourcesAcknowledged: iv.ResourcesAcknowledged,
		ReasonText:            iv.ReasonText,
		AcknowledgedAt:        iv.AcknowledgedAt,
		CoolingUntil:          iv.CoolingUntil,
		ProceededAt:           iv.ProceededAt,
		CreatedAt:             iv.CreatedAt,
		UpdatedAt:             iv.UpdatedAt,
	}
}
