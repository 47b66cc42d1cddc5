package events

import "github.com/google/uuid"

// InterventionSubmitted is published when a fresh rehoming intervention record
// is created. It is not published when create returns an already-active record.
type InterventionSubmitted struct {
	BaseEvent
	InterventionID uuid.UUID
	SubjectID      uuid.UUID
	OwnerID        uuid.UUID
	OwnerEmail     string
	Status         string
	CoolingUntil   *string // RFC3339, nil unless status is cooling
}

// EventName returns the unique event identifier.
func (e InterventionSubmitted) EventName() string {
	return "rehoming.intervention.submitted"
}

// InterventionProceeded is published once when a record actually transitions
// to proceeded. Repeated proceed calls on a terminal record do not republish.
type InterventionProceeded struct {
	BaseEvent
	InterventionID uuid.UUID
	SubjectID      uuid.UUID
	OwnerID        uuid.UUID
	OwnerEmail     string
}

// EventName returns the unique event identifier.
func (e InterventionProceeded) EventName() string {
	return "rehoming.intervention.proceeded"
}
