// Package coolinggate evaluates the cooling-off gate for an intervention
// record and owns the single authoritative proceed transition available to
// the client side. Whether a cooling period applies and how long it lasts
// are the authority's decisions, delivered opaquely via the record's status
// and coolingUntil; nothing here replicates or predicts that policy.
package coolinggate

import (
	"context"
	"math"
	"time"

	"petcircle_backend/internal/intervention/client"

	"github.com/google/uuid"
)

// RemainingHours returns the whole hours left until the gate opens,
// rounding partial hours up. Zero or negative means the gate is open.
func RemainingHours(coolingUntil, now time.Time) int {
	return int(math.Ceil(coolingUntil.Sub(now).Hours()))
}

// IsOpen reports whether the cooling period has elapsed.
func IsOpen(coolingUntil, now time.Time) bool {
	return RemainingHours(coolingUntil, now) <= 0
}

// Gate issues the proceed transition through the persistence client.
type Gate struct {
	client client.Client
}

// New creates a gate bound to a persistence client.
func New(c client.Client) *Gate {
	return &Gate{client: c}
}

// Proceed transitions the record to its terminal proceeded status. The
// authority makes this idempotent: proceeding an already-proceeded record
// succeeds and returns the unchanged terminal record, so concurrent or
// repeated invocations converge on the same state.
func (g *Gate) Proceed(ctx context.Context, id uuid.UUID) (client.Record, error) {
	return g.client.Proceed(ctx, id)
}
