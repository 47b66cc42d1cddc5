package transport

import (
	"time"

	"github.com/google/uuid"
)

// InterventionStatus defines the lifecycle status of a rehoming intervention
type InterventionStatus string

const (
	InterventionStatusCooling      InterventionStatus = "cooling"
	InterventionStatusStarted      InterventionStatus = "started"
	InterventionStatusAcknowledged InterventionStatus = "acknowledged"
	InterventionStatusProceeded    InterventionStatus = "proceeded"
)

// CreateInterventionRequest is the request body for submitting a completed
// intervention wizard
type CreateInterventionRequest struct {
	SubjectID             uuid.UUID `json:"subjectId" validate:"required"`
	ReasonCode            string    `json:"reasonCode" validate:"required,oneof=housing financial behavior time health pets other"`
	UrgencyBucket         string    `json:"urgencyBucket" validate:"required,oneof=immediate one_month three_months flexible"`
	ResourcesViewed       []string  `json:"resourcesViewed" validate:"required,min=1,dive,min=1,max=100"`
	ResourcesAcknowledged bool      `json:"resourcesAcknowledged"`
	AcknowledgedAt        time.Time `json:"acknowledgedAt" validate:"required"`
	ReasonText            string    `json:"reasonText" validate:"required,min=50,max=10000"`
}

// InterventionResponse is the response body for an intervention record
type InterventionResponse struct {
	ID                    uuid.UUID          `json:"id"`
	SubjectID             uuid.UUID          `json:"subjectId"`
	OwnerID               uuid.UUID          `json:"ownerId"`
	Status                InterventionStatus `json:"status"`
	ReasonCode            string             `json:"reasonCode"`
	UrgencyBucket         string             `json:"urgencyBucket"`
	ResourcesViewed       []string           `json:"resourcesViewed"`
	ResourcesAcknowledged bool               `json:"resourcesAcknowledged"`
	ReasonText            string             `json:"reasonText"`
	AcknowledgedAt        time.Time          `json:"acknowledgedAt"`
	CoolingUntil          *time.Time         `json:"coolingUntil,omitempty"`
	ProceededAt           *time.Time         `json:"proceededAt,omitempty"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// GetActiveInterventionRequest is the query parameters for the active lookup
type GetActiveInterventionRequest struct {
	SubjectID uuid.UUID `form:"subjectId" validate:"required"`
}
