package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"petcircle_backend/internal/intervention/policy"

	"github.com/google/uuid"
)

func staticToken(token string) TokenFunc {
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}

func testPayload(subjectID uuid.UUID) CreatePayload {
	return CreatePayload{
		SubjectID:             subjectID,
		ReasonCode:            "housing",
		UrgencyBucket:         policy.UrgencyOneMonth,
		ResourcesViewed:       []string{"rehoming-guide", "community-support", "pet-friendly-housing", "tenant-rights"},
		ResourcesAcknowledged: true,
		AcknowledgedAt:        time.Now(),
		ReasonText:            "Our new landlord does not allow pets and we have not found an alternative.",
	}
}

func TestHTTPClientCreate(t *testing.T) {
	subjectID := uuid.New()
	recordID := uuid.New()
	coolingUntil := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/rehoming/interventions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var body createDTO
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body.ReasonCode != "housing" {
			t.Errorf("request reasonCode = %q", body.ReasonCode)
		}
		if body.UrgencyBucket != "one_month" {
			t.Errorf("request urgencyBucket = %q", body.UrgencyBucket)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(recordDTO{
			ID:             recordID,
			SubjectID:      subjectID,
			OwnerID:        uuid.New(),
			Status:         "cooling",
			ReasonCode:     "housing",
			UrgencyBucket:  "one_month",
			AcknowledgedAt: time.Now().UTC().Format(time.RFC3339),
			CoolingUntil:   &coolingUntil,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticToken("test-token"))
	record, err := c.Create(context.Background(), testPayload(subjectID))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if record.ID != recordID {
		t.Errorf("record id = %v, want %v", record.ID, recordID)
	}
	if record.Status != StatusCooling {
		t.Errorf("record status = %q, want %q", record.Status, StatusCooling)
	}
	if record.CoolingUntil == nil {
		t.Error("record should carry the cooling deadline")
	}
}

func TestHTTPClientCreateAcceptsExistingRecord(t *testing.T) {
	// 200 instead of 201 means the authority returned an already-active
	// record; the client treats both as success.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(recordDTO{
			ID:             uuid.New(),
			SubjectID:      uuid.New(),
			Status:         "started",
			AcknowledgedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticToken("test-token"))
	record, err := c.Create(context.Background(), testPayload(uuid.New()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if record.Status != StatusStarted {
		t.Errorf("record status = %q, want %q", record.Status, StatusStarted)
	}
}

func TestHTTPClientGetActiveNotFoundMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("subjectId"); got == "" {
			t.Error("missing subjectId query parameter")
		}
		http.Error(w, `{"error":"no active intervention"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticToken("test-token"))
	record, err := c.GetActive(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if record != nil {
		t.Errorf("GetActive() = %+v, want nil", record)
	}
}

func TestHTTPClientServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticToken("test-token"))

	if _, err := c.Create(context.Background(), testPayload(uuid.New())); !IsUnavailable(err) {
		t.Errorf("Create() error = %v, want unavailable", err)
	}
	if _, err := c.GetActive(context.Background(), uuid.New()); !IsUnavailable(err) {
		t.Errorf("GetActive() error = %v, want unavailable", err)
	}
	if _, err := c.Proceed(context.Background(), uuid.New()); !IsUnavailable(err) {
		t.Errorf("Proceed() error = %v, want unavailable", err)
	}
}

func TestHTTPClientTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	c := NewHTTPClient(srv.URL, staticToken("test-token"))
	if _, err := c.GetActive(context.Background(), uuid.New()); !IsUnavailable(err) {
		t.Errorf("GetActive() error = %v, want unavailable", err)
	}
}
