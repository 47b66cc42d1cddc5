package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcircle_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateActive is returned when an insert collides with the partial
// unique index on (subject_id, owner_id) for non-proceeded records. The
// service resolves it by fetching the existing record.
var ErrDuplicateActive = errors.New("active intervention already exists")

// Intervention represents the intervention database model
type Intervention struct {
	ID                    uuid.UUID  `db:"id"`
	SubjectID             uuid.UUID  `db:"subject_id"`
	OwnerID               uuid.UUID  `db:"owner_id"`
	Status                string     `db:"status"`
	ReasonCode            string     `db:"reason_code"`
	UrgencyBucket         string     `db:"urgency_bucket"`
	ResourcesViewed       []string   `db:"resources_viewed"`
	ResourcesAcknowledged bool       `db:"resources_acknowledged"`
	ReasonText            string     `db:"reason_text"`
	AcknowledgedAt        time.Time  `db:"acknowledged_at"`
	CoolingUntil          *time.Time `db:"cooling_until"`
	ProceededAt           *time.Time `db:"proceeded_at"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// Repository provides database operations for rehoming interventions
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new rehoming repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const interventionColumns = `id, subject_id, owner_id, status, reason_code, urgency_bucket,
	resources_viewed, resources_acknowledged, reason_text, acknowledged_at,
	cooling_until, proceeded_at, created_at, updated_at`

func scanIntervention(row pgx.Row) (*Intervention, error) {
	var iv Intervention
	err := row.Scan(
		&iv.ID, &iv.SubjectID, &iv.OwnerID, &iv.Status, &iv.ReasonCode, &iv.UrgencyBucket,
		&iv.ResourcesViewed, &iv.ResourcesAcknowledged, &iv.ReasonText, &iv.AcknowledgedAt,
		&iv.CoolingUntil, &iv.ProceededAt, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// Create inserts a new intervention. A collision with the one-active-per-
// (subject, owner) unique index is reported as ErrDuplicateActive.
func (r *Repository) Create(ctx context.Context, iv *Intervention) (*Intervention, error) {
	query := fmt.Sprintf(`
		INSERT INTO rehoming_interventions (
			id, subject_id, owner_id, status, reason_code, urgency_bucket,
			resources_viewed, resources_acknowledged, reason_text, acknowledged_at, cooling_until
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s`, interventionColumns)

	created, err := scanIntervention(r.pool.QueryRow(ctx, query,
		iv.ID, iv.SubjectID, iv.OwnerID, iv.Status, iv.ReasonCode, iv.UrgencyBucket,
		iv.ResourcesViewed, iv.ResourcesAcknowledged, iv.ReasonText, iv.AcknowledgedAt, iv.CoolingUntil,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateActive
		}
		return nil, fmt.Errorf("failed to create intervention: %w", err)
	}

	return created, nil
}

// GetActiveBySubject returns the owner's non-proceeded intervention for a
// subject, or nil when none exists.
func (r *Repository) GetActiveBySubject(ctx context.Context, subjectID, ownerID uuid.UUID) (*Intervention, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rehoming_interventions
		WHERE subject_id = $1 AND owner_id = $2 AND status != 'proceeded'`, interventionColumns)

	iv, err := scanIntervention(r.pool.QueryRow(ctx, query, subjectID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active intervention: %w", err)
	}

	return iv, nil
}

// GetByID returns an intervention scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Intervention, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rehoming_interventions
		WHERE id = $1 AND owner_id = $2`, interventionColumns)

	iv, err := scanIntervention(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("intervention not found")
		}
		return nil, fmt.Errorf("failed to get intervention: %w", err)
	}

	return iv, nil
}

// MarkProceeded moves an intervention into the terminal proceeded status.
// Already-proceeded rows are left untouched; the row is returned either way
// so repeated calls are safe.
func (r *Repository) MarkProceeded(ctx context.Context, id, ownerID uuid.UUID, proceededAt time.Time) (*Intervention, error) {
	query := fmt.Sprintf(`
		UPDATE rehoming_interventions
		SET status = 'proceeded',
			cooling_until = NULL,
			proceeded_at = COALESCE(proceeded_at, $3),
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING %s`, interventionColumns)

	iv, err := scanIntervention(r.pool.QueryRow(ctx, query, id, ownerID, proceededAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("intervention not found")
		}
		return nil, fmt.Errorf("failed to mark intervention proceeded: %w", err)
	}

	return iv, nil
}
