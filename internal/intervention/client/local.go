package client

import (
	"context"

	"petcircle_backend/internal/intervention/policy"
	"petcircle_backend/internal/rehoming/service"
	"petcircle_backend/internal/rehoming/transport"

	"github.com/google/uuid"
)

// LocalClient adapts the in-process rehoming service to the Client interface,
// scoped to one owner. It lets the wizard run inside the same binary as the
// authority without an HTTP round trip, which is how the worker-side tooling
// and the service tests drive the workflow.
type LocalClient struct {
	svc        *service.Service
	ownerID    uuid.UUID
	ownerEmail string
}

// NewLocalClient creates a client bound to the given owner.
func NewLocalClient(svc *service.Service, ownerID uuid.UUID, ownerEmail string) *LocalClient {
	return &LocalClient{svc: svc, ownerID: ownerID, ownerEmail: ownerEmail}
}

// Create implements Client.
func (c *LocalClient) Create(ctx context.Context, payload CreatePayload) (Record, error) {
	resp, _, err := c.svc.Create(ctx, c.ownerID, c.ownerEmail, transport.CreateInterventionRequest{
		SubjectID:             payload.SubjectID,
		ReasonCode:            payload.ReasonCode,
		UrgencyBucket:         string(payload.UrgencyBucket),
		ResourcesViewed:       payload.ResourcesViewed,
		ResourcesAcknowledged: payload.ResourcesAcknowledged,
		AcknowledgedAt:        payload.AcknowledgedAt,
		ReasonText:            payload.ReasonText,
	})
	if err != nil {
		return Record{}, err
	}
	return fromTransport(resp), nil
}

// GetActive implements Client.
func (c *LocalClient) GetActive(ctx context.Context, subjectID uuid.UUID) (*Record, error) {
	resp, err := c.svc.GetActive(ctx, c.ownerID, subjectID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	record := fromTransport(resp)
	return &record, nil
}

// Proceed implements Client.
func (c *LocalClient) Proceed(ctx context.Context, id uuid.UUID) (Record, error) {
	resp, err := c.svc.Proceed(ctx, c.ownerID, c.ownerEmail, id)
	if err != nil {
		return Record{}, err
	}
	return fromTransport(resp), nil
}

func fromTransport(resp *transport.InterventionResponse) Record {
	return Record{
		ID:                    resp.ID,
		SubjectID:             resp.SubjectID,
		OwnerID:               resp.OwnerID,
		Status:                Status(resp.Status),
		ReasonCode:            resp.ReasonCode,
		UrgencyBucket:         policy.UrgencyBucket(resp.UrgencyBucket),
		ResourcesViewed:       resp.ResourcesViewed,
		ResourcesAcknowledged: resp.ResourcesAcknowledged,
		AcknowledgedAt:        resp.AcknowledgedAt,
		CoolingUntil:          resp.CoolingUntil,
		ReasonText:            resp.ReasonText,
	}
}

var _ Client = (*LocalClient)(nil)
