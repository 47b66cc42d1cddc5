// Package client defines the persistence boundary for intervention records.
// The records are owned by the rehoming authority; the workflow only reads
// and writes them through the Client interface. Two adapters are provided:
// an HTTP adapter for a remote authority and a Local adapter wrapping the
// in-process authority service.
package client

import (
	"context"
	"time"

	"petcircle_backend/internal/intervention/policy"
	"petcircle_backend/platform/apperr"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an intervention record. Transitions are
// monotonic: a record is created as cooling, started, or acknowledged, and
// the only client-initiated transition is to the terminal proceeded state.
type Status string

const (
	StatusCooling      Status = "cooling"
	StatusStarted      Status = "started"
	StatusAcknowledged Status = "acknowledged"
	StatusProceeded    Status = "proceeded"
)

// Active reports whether the record still gates the rehoming action.
func (s Status) Active() bool {
	return s == StatusCooling || s == StatusStarted || s == StatusAcknowledged
}

// Terminal reports whether the record has reached its final state.
func (s Status) Terminal() bool {
	return s == StatusProceeded
}

// Record is an intervention record as returned by the authority.
// CoolingUntil is set if and only if Status is cooling.
type Record struct {
	ID                    uuid.UUID
	SubjectID             uuid.UUID
	OwnerID               uuid.UUID
	Status                Status
	ReasonCode            string
	UrgencyBucket         policy.UrgencyBucket
	ResourcesViewed       []string
	ResourcesAcknowledged bool
	AcknowledgedAt        time.Time
	CoolingUntil          *time.Time
	ReasonText            string
}

// CreatePayload is the outbound submission built by the workflow.
type CreatePayload struct {
	SubjectID             uuid.UUID
	ReasonCode            string
	UrgencyBucket         policy.UrgencyBucket
	ResourcesViewed       []string
	ResourcesAcknowledged bool
	AcknowledgedAt        time.Time
	ReasonText            string
}

// Client is the persistence boundary consumed by the workflow and the
// cooling gate. Every call may fail with an unavailable error; callers must
// never assume a call succeeded without an explicit success response.
type Client interface {
	// Create submits a new intervention. The authority enforces at most one
	// active record per (subject, owner); when one already exists it is
	// returned unchanged instead of an error.
	Create(ctx context.Context, payload CreatePayload) (Record, error)

	// GetActive returns the active (non-proceeded) record for the subject,
	// or nil when there is none.
	GetActive(ctx context.Context, subjectID uuid.UUID) (*Record, error)

	// Proceed transitions the record to the terminal proceeded status.
	// This is the only legal client-initiated status update and it is
	// idempotent: proceeding an already-proceeded record succeeds.
	Proceed(ctx context.Context, id uuid.UUID) (Record, error)
}

// Unavailable wraps a transport or service failure as a retryable error.
func Unavailable(op string, err error) error {
	return apperr.Wrap(apperr.KindUnavailable, "intervention service unavailable", err).WithOp(op)
}

// IsUnavailable reports whether the error is a retryable transport failure.
func IsUnavailable(err error) bool {
	return apperr.Is(err, apperr.KindUnavailable)
}
