// Package notification bridges intervention domain events to the scheduler
// queue. Domain modules publish events without knowing about email providers;
// this module subscribes and enqueues the delivery work, so a slow or down
// SMTP server never blocks a request.
package notification

import (
	"context"
	"fmt"

	"petcircle_backend/internal/events"
	"petcircle_backend/internal/scheduler"
	"petcircle_backend/platform/logger"
)

// Module wires intervention events into scheduler tasks.
type Module struct {
	notifier scheduler.InterventionNotifier
	log      *logger.Logger
}

// NewModule creates the notification module.
func NewModule(notifier scheduler.InterventionNotifier, log *logger.Logger) *Module {
	return &Module{notifier: notifier, log: log}
}

// Subscribe registers the module's event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	submitted := events.InterventionSubmitted{}
	proceeded := events.InterventionProceeded{}
	bus.Subscribe(submitted.EventName(), events.HandlerFunc(m.handleInterventionSubmitted))
	bus.Subscribe(proceeded.EventName(), events.HandlerFunc(m.handleInterventionProceeded))
}

func (m *Module) handleInterventionSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.InterventionSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	payload := scheduler.InterventionSubmittedPayload{
		InterventionID: e.InterventionID.String(),
		SubjectID:      e.SubjectID.String(),
		OwnerID:        e.OwnerID.String(),
		OwnerEmail:     e.OwnerEmail,
		Status:         e.Status,
	}
	if e.CoolingUntil != nil {
		payload.CoolingUntil = *e.CoolingUntil
	}

	if err := m.notifier.EnqueueInterventionSubmitted(ctx, payload); err != nil {
		m.log.Error("enqueue intervention submitted notification failed",
			"interventionId", e.InterventionID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleInterventionProceeded(ctx context.Context, event events.Event) error {
	e, ok := event.(events.InterventionProceeded)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	err := m.notifier.EnqueueInterventionProceeded(ctx, scheduler.InterventionProceededPayload{
		InterventionID: e.InterventionID.String(),
		OwnerID:        e.OwnerID.String(),
		OwnerEmail:     e.OwnerEmail,
	})
	if err != nil {
		m.log.Error("enqueue intervention proceeded notification failed",
			"interventionId", e.InterventionID, "error", err)
		return err
	}
	return nil
}
