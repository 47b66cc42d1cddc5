package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"petcircle_backend/internal/intervention/policy"
	"petcircle_backend/platform/apperr"

	"github.com/google/uuid"
)

// TokenFunc supplies the bearer token for a request. Token issuing is out of
// scope for this service; callers plug in whatever session they have.
type TokenFunc func(ctx context.Context) (string, error)

// HTTPClient talks to a remote rehoming authority over its REST API.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	token   TokenFunc
}

// NewHTTPClient creates an HTTP adapter for the authority at baseURL
// (e.g. "https://api.petcircle.example"). tokenFn may be nil for
// unauthenticated test servers.
func NewHTTPClient(baseURL string, tokenFn TokenFunc) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		token:   tokenFn,
	}
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// recordDTO mirrors the authority's wire representation of a record.
type recordDTO struct {
	ID                    uuid.UUID `json:"id"`
	SubjectID             uuid.UUID `json:"subjectId"`
	OwnerID               uuid.UUID `json:"ownerId"`
	Status                string    `json:"status"`
	ReasonCode            string    `json:"reasonCode"`
	UrgencyBucket         string    `json:"urgencyBucket"`
	ResourcesViewed       []string  `json:"resourcesViewed"`
	ResourcesAcknowledged bool      `json:"resourcesAcknowledged"`
	AcknowledgedAt        string    `json:"acknowledgedAt"`
	CoolingUntil          *string   `json:"coolingUntil"`
	ReasonText            string    `json:"reasonText"`
}

type createDTO struct {
	SubjectID             uuid.UUID `json:"subjectId"`
	ReasonCode            string    `json:"reasonCode"`
	UrgencyBucket         string    `json:"urgencyBucket"`
	ResourcesViewed       []string  `json:"resourcesViewed"`
	ResourcesAcknowledged bool      `json:"resourcesAcknowledged"`
	AcknowledgedAt        string    `json:"acknowledgedAt"`
	ReasonText            string    `json:"reasonText"`
}

// Create submits the payload via POST /api/v1/rehoming/interventions.
// Both 201 (fresh record) and 200 (existing active record) are successes.
func (c *HTTPClient) Create(ctx context.Context, payload CreatePayload) (Record, error) {
	body := createDTO{
		SubjectID:             payload.SubjectID,
		ReasonCode:            payload.ReasonCode,
		UrgencyBucket:         string(payload.UrgencyBucket),
		ResourcesViewed:       payload.ResourcesViewed,
		ResourcesAcknowledged: payload.ResourcesAcknowledged,
		AcknowledgedAt:        payload.AcknowledgedAt.UTC().Format(time.RFC3339),
		ReasonText:            payload.ReasonText,
	}

	var dto recordDTO
	status, err := c.do(ctx, http.MethodPost, "/api/v1/rehoming/interventions", body, &dto)
	if err != nil {
		return Record{}, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return Record{}, unexpectedStatus("create intervention", status)
	}

	return fromDTO(dto)
}

// GetActive fetches the active record for a subject. A 404 means none exists.
func (c *HTTPClient) GetActive(ctx context.Context, subjectID uuid.UUID) (*Record, error) {
	path := "/api/v1/rehoming/interventions/active?subjectId=" + subjectID.String()

	var dto recordDTO
	status, err := c.do(ctx, http.MethodGet, path, nil, &dto)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus("get active intervention", status)
	}

	record, err := fromDTO(dto)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Proceed issues the terminal status transition.
func (c *HTTPClient) Proceed(ctx context.Context, id uuid.UUID) (Record, error) {
	path := "/api/v1/rehoming/interventions/" + id.String() + "/proceed"

	var dto recordDTO
	status, err := c.do(ctx, http.MethodPost, path, nil, &dto)
	if err != nil {
		return Record{}, err
	}
	if status != http.StatusOK {
		return Record{}, unexpectedStatus("proceed intervention", status)
	}

	return fromDTO(dto)
}

// do executes a request and decodes a successful JSON body into out.
// Transport failures and 5xx responses surface as retryable unavailable
// errors; other statuses are returned for the caller to interpret.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return 0, fmt.Errorf("resolve token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, Unavailable(method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, Unavailable(method+" "+path, fmt.Errorf("status %d", resp.StatusCode))
	}

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, Unavailable(method+" "+path, fmt.Errorf("decode response: %w", err))
		}
	}

	return resp.StatusCode, nil
}

func unexpectedStatus(op string, status int) error {
	return apperr.New(apperr.KindInternal, fmt.Sprintf("unexpected status %d", status)).WithOp(op)
}

func fromDTO(dto recordDTO) (Record, error) {
	acknowledgedAt, err := time.Parse(time.RFC3339, dto.AcknowledgedAt)
	if err != nil {
		acknowledgedAt = time.Time{}
	}

	var coolingUntil *time.Time
	if dto.CoolingUntil != nil && *dto.CoolingUntil != "" {
		parsed, err := time.Parse(time.RFC3339, *dto.CoolingUntil)
		if err != nil {
			return Record{}, fmt.Errorf("parse coolingUntil: %w", err)
		}
		coolingUntil = &parsed
	}

	return Record{
		ID:                    dto.ID,
		SubjectID:             dto.SubjectID,
		OwnerID:               dto.OwnerID,
		Status:                Status(dto.Status),
		ReasonCode:            dto.ReasonCode,
		UrgencyBucket:         policy.UrgencyBucket(dto.UrgencyBucket),
		ResourcesViewed:       dto.ResourcesViewed,
		ResourcesAcknowledged: dto.ResourcesAcknowledged,
		AcknowledgedAt:        acknowledgedAt,
		CoolingUntil:          coolingUntil,
		ReasonText:            dto.ReasonText,
	}, nil
}
