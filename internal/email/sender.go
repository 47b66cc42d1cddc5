// Package email renders and delivers transactional email for the rehoming
// intervention flow.
package email

import "context"

// Sender delivers intervention emails. Implementations must be safe for
// concurrent use; the scheduler worker calls them from multiple goroutines.
type Sender interface {
	// SendInterventionReceivedEmail confirms a submitted intervention. An
	// empty coolingUntil means the action was cleared immediately.
	SendInterventionReceivedEmail(ctx context.Context, toEmail, coolingUntil string) error

	// SendInterventionProceededEmail confirms the owner chose to proceed
	// and points at the listing flow.
	SendInterventionProceededEmail(ctx context.Context, toEmail string) error
}

// NoopSender is used when email delivery is disabled in configuration.
type NoopSender struct{}

func (NoopSender) SendInterventionReceivedEmail(ctx context.Context, toEmail, coolingUntil string) error {
	return nil
}

func (NoopSender) SendInterventionProceededEmail(ctx context.Context, toEmail string) error {
	return nil
}

var _ Sender = NoopSender{}
