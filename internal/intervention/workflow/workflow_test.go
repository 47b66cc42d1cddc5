package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"petcircle_backend/internal/intervention/client"
	"petcircle_backend/internal/intervention/policy"

	"github.com/google/uuid"
)

type fakeClient struct {
	active *client.Record

	createStatus  client.Status
	createCooling *time.Time
	createFails   int
	createCalls   int
	lastPayload   client.CreatePayload

	proceedFails int
	proceedCalls int
}

func (f *fakeClient) Create(ctx context.Context, p client.CreatePayload) (client.Record, error) {
	f.createCalls++
	if f.createFails > 0 {
		f.createFails--
		return client.Record{}, client.Unavailable("intervention.create", context.DeadlineExceeded)
	}
	f.lastPayload = p
	return client.Record{
		ID:            uuid.New(),
		SubjectID:     p.SubjectID,
		Status:        f.createStatus,
		ReasonCode:    p.ReasonCode,
		UrgencyBucket: p.UrgencyBucket,
		CoolingUntil:  f.createCooling,
	}, nil
}

func (f *fakeClient) GetActive(ctx context.Context, subjectID uuid.UUID) (*client.Record, error) {
	return f.active, nil
}

func (f *fakeClient) Proceed(ctx context.Context, id uuid.UUID) (client.Record, error) {
	f.proceedCalls++
	if f.proceedFails > 0 {
		f.proceedFails--
		return client.Record{}, client.Unavailable("intervention.proceed", context.DeadlineExceeded)
	}
	return client.Record{ID: id, Status: client.StatusProceeded}, nil
}

var validExplanation = strings.Repeat("we are moving overseas and cannot take him ", 3)

// completeWizard fills every step of a fresh session with valid answers and
// walks it to step 4.
func completeWizard(t *testing.T, s *Session) {
	t.Helper()

	s.DismissIntro()
	if err := s.SetReason(policy.ReasonHousing); err != nil {
		t.Fatalf("SetReason() error = %v", err)
	}
	s.SetExplanation(validExplanation)
	s.SetUrgency(policy.UrgencyOptions()[1])
	if err := s.Next(); err != nil {
		t.Fatalf("Next() from step 1 error = %v", err)
	}

	for _, id := range policy.ResourceIDsFor(policy.ReasonHousing) {
		if err := s.MarkResourceReviewed(id); err != nil {
			t.Fatalf("MarkResourceReviewed(%q) error = %v", id, err)
		}
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next() from step 2 error = %v", err)
	}

	if err := s.SetAttempted(AttemptedPartial); err != nil {
		t.Fatalf("SetAttempted() error = %v", err)
	}
	s.SetPermanent(true)
	if err := s.Next(); err != nil {
		t.Fatalf("Next() from step 3 error = %v", err)
	}

	s.SetAcknowledgments(Acknowledgments{
		Resources:       true,
		Permanent:       true,
		Honest:          true,
		Exclusive:       true,
		Responsibility:  true,
		CoolingPeriod:   true,
		AccurateListing: true,
	})
	s.SetCommitment("I will vet every applicant personally")
}

func TestStartWithoutActiveRecordShowsEntry(t *testing.T) {
	s := NewSession(&fakeClient{}, uuid.New(), nil)

	view, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view != ViewEntry {
		t.Errorf("Start() view = %v, want %v", view, ViewEntry)
	}
}

func TestStartResumesCoolingRecord(t *testing.T) {
	until := time.Now().Add(30 * time.Hour)
	fake := &fakeClient{active: &client.Record{
		ID:           uuid.New(),
		Status:       client.StatusCooling,
		CoolingUntil: &until,
	}}
	s := NewSession(fake, uuid.New(), nil)

	view, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view != ViewCooling {
		t.Errorf("Start() view = %v, want %v", view, ViewCooling)
	}
	if got, ok := s.CoolingUntil(); !ok || !got.Equal(until) {
		t.Errorf("CoolingUntil() = %v, %v; want %v, true", got, ok, until)
	}
}

func TestStartRetriesPendingProceed(t *testing.T) {
	fake := &fakeClient{active: &client.Record{
		ID:     uuid.New(),
		Status: client.StatusStarted,
	}}
	s := NewSession(fake, uuid.New(), nil)

	view, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view != ViewPassthrough {
		t.Errorf("Start() view = %v, want %v", view, ViewPassthrough)
	}
	if fake.proceedCalls != 1 {
		t.Errorf("proceed calls = %d, want 1", fake.proceedCalls)
	}
}

func TestStep1GateRequiresAllThreeAnswers(t *testing.T) {
	s := NewSession(&fakeClient{}, uuid.New(), nil)
	s.DismissIntro()

	if err := s.Next(); err == nil {
		t.Fatal("Next() with an empty step 1 should fail")
	}

	if err := s.SetReason(policy.ReasonBehavior); err != nil {
		t.Fatalf("SetReason() error = %v", err)
	}
	s.SetExplanation("too short")
	s.SetUrgency(policy.UrgencyOptions()[0])
	if err := s.Next(); err == nil {
		t.Error("Next() should fail while the explanation is under the minimum length")
	}

	s.SetExplanation(validExplanation)
	s.SetUrgency("whenever really")
	if err := s.Next(); err == nil {
		t.Error("Next() should fail for an urgency text that is not an offered option")
	}

	s.SetUrgency(policy.UrgencyOptions()[3])
	if err := s.Next(); err != nil {
		t.Errorf("Next() with a complete step 1 error = %v", err)
	}
	if s.View() != ViewStep2 {
		t.Errorf("view = %v, want %v", s.View(), ViewStep2)
	}
}

func TestStep2GateRequiresEveryResource(t *testing.T) {
	s := NewSession(&fakeClient{}, uuid.New(), nil)
	s.DismissIntro()
	if err := s.SetReason(policy.ReasonHousing); err != nil {
		t.Fatalf("SetReason() error = %v", err)
	}
	s.SetExplanation(validExplanation)
	s.SetUrgency(policy.UrgencyOptions()[2])
	if err := s.Next(); err != nil {
		t.Fatalf("Next() from step 1 error = %v", err)
	}

	ids := policy.ResourceIDsFor(policy.ReasonHousing)
	for _, id := range ids[:len(ids)-1] {
		if err := s.MarkResourceReviewed(id); err != nil {
			t.Fatalf("MarkResourceReviewed(%q) error = %v", id, err)
		}
		if err := s.Next(); err == nil {
			t.Fatalf("Next() should fail with %q still unreviewed", ids[len(ids)-1])
		}
	}

	if err := s.MarkResourceReviewed("not-a-real-resource"); err == nil {
		t.Error("MarkResourceReviewed() should reject an unknown id")
	}

	if err := s.MarkResourceReviewed(ids[len(ids)-1]); err != nil {
		t.Fatalf("MarkResourceReviewed() error = %v", err)
	}
	if err := s.Next(); err != nil {
		t.Errorf("Next() with every resource reviewed error = %v", err)
	}
}

func TestStep3PermanenceIsTriState(t *testing.T) {
	s := NewSession(&fakeClient{}, uuid.New(), nil)
	s.view = ViewStep3
	if err := s.SetAttempted(AttemptedNone); err != nil {
		t.Fatalf("SetAttempted() error = %v", err)
	}

	if err := s.Next(); err == nil {
		t.Error("Next() should fail while permanence is unanswered")
	}

	s.SetPermanent(false)
	if err := s.Next(); err != nil {
		t.Errorf("Next() with an explicit no error = %v", err)
	}
}

func TestBackNeverClearsData(t *testing.T) {
	s := NewSession(&fakeClient{}, uuid.New(), nil)
	completeWizard(t, s)

	s.Back()
	s.Back()
	s.Back()
	if s.View() != ViewStep1 {
		t.Fatalf("view after three Back() = %v, want %v", s.View(), ViewStep1)
	}

	if err := s.Next(); err != nil {
		t.Errorf("step 1 should still be complete after going back: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Errorf("step 2 should still be complete after going back: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Errorf("step 3 should still be complete after going back: %v", err)
	}
	if err := s.CanAdvance(); err != nil {
		t.Errorf("step 4 should still be complete after going back: %v", err)
	}
}

func TestSubmitRoutesToCooling(t *testing.T) {
	until := time.Now().Add(48 * time.Hour)
	fake := &fakeClient{createStatus: client.StatusCooling, createCooling: &until}
	subjectID := uuid.New()
	s := NewSession(fake, subjectID, nil)
	acknowledged := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return acknowledged }
	completeWizard(t, s)

	view, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if view != ViewCooling {
		t.Errorf("Submit() view = %v, want %v", view, ViewCooling)
	}
	if fake.proceedCalls != 0 {
		t.Errorf("proceed calls = %d, want 0 while cooling", fake.proceedCalls)
	}

	p := fake.lastPayload
	if p.SubjectID != subjectID {
		t.Errorf("payload subject = %v, want %v", p.SubjectID, subjectID)
	}
	if p.ReasonCode != "housing" {
		t.Errorf("payload reason code = %q, want %q", p.ReasonCode, "housing")
	}
	if p.UrgencyBucket != policy.UrgencyOneMonth {
		t.Errorf("payload urgency = %q, want %q", p.UrgencyBucket, policy.UrgencyOneMonth)
	}
	if len(p.ResourcesViewed) != len(policy.ResourceIDsFor(policy.ReasonHousing)) {
		t.Errorf("payload resources viewed = %v, want all housing resources", p.ResourcesViewed)
	}
	if !p.ResourcesAcknowledged {
		t.Error("payload should mark resources acknowledged")
	}
	if !p.AcknowledgedAt.Equal(acknowledged) {
		t.Errorf("payload acknowledgedAt = %v, want %v", p.AcknowledgedAt, acknowledged)
	}
	if !strings.Contains(p.ReasonText, validExplanation) {
		t.Error("payload reason text should contain the explanation")
	}
	if !strings.Contains(p.ReasonText, "Commitment: I will vet every applicant personally") {
		t.Error("payload reason text should contain the commitment")
	}
}

func TestSubmitImmediateClearProceedsToPassthrough(t *testing.T) {
	fake := &fakeClient{createStatus: client.StatusStarted}
	s := NewSession(fake, uuid.New(), nil)
	completeWizard(t, s)

	view, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if view != ViewPassthrough {
		t.Errorf("Submit() view = %v, want %v", view, ViewPassthrough)
	}
	if fake.createCalls != 1 || fake.proceedCalls != 1 {
		t.Errorf("calls = %d create / %d proceed, want 1 / 1", fake.createCalls, fake.proceedCalls)
	}
}

func TestSubmitRetryAfterUnavailableCreatesOnce(t *testing.T) {
	fake := &fakeClient{createStatus: client.StatusStarted, createFails: 1}
	s := NewSession(fake, uuid.New(), nil)
	completeWizard(t, s)

	view, err := s.Submit(context.Background())
	if err == nil {
		t.Fatal("Submit() should fail while the authority is unavailable")
	}
	if !client.IsUnavailable(err) {
		t.Fatalf("Submit() error = %v, want unavailable", err)
	}
	if view != ViewStep4 {
		t.Fatalf("view after failed Submit() = %v, want %v", view, ViewStep4)
	}
	if err := s.CanAdvance(); err != nil {
		t.Errorf("answers should survive a failed submit: %v", err)
	}

	view, err = s.Submit(context.Background())
	if err != nil {
		t.Fatalf("retried Submit() error = %v", err)
	}
	if view != ViewPassthrough {
		t.Errorf("retried Submit() view = %v, want %v", view, ViewPassthrough)
	}
	if fake.createCalls != 2 {
		t.Errorf("create calls = %d, want 2 (one failed, one succeeded)", fake.createCalls)
	}
}

func TestSubmitDoesNotRepeatCreateWhileProceedPending(t *testing.T) {
	fake := &fakeClient{createStatus: client.StatusStarted, proceedFails: 1}
	s := NewSession(fake, uuid.New(), nil)
	completeWizard(t, s)

	view, err := s.Submit(context.Background())
	if err == nil {
		t.Fatal("Submit() should surface the failed proceed")
	}
	if view != ViewStep4 {
		t.Fatalf("view after failed proceed = %v, want %v", view, ViewStep4)
	}

	view, err = s.Submit(context.Background())
	if err != nil {
		t.Fatalf("retried Submit() error = %v", err)
	}
	if view != ViewPassthrough {
		t.Errorf("retried Submit() view = %v, want %v", view, ViewPassthrough)
	}
	if fake.createCalls != 1 {
		t.Errorf("create calls = %d, want exactly 1 for one submission", fake.createCalls)
	}
	if fake.proceedCalls != 2 {
		t.Errorf("proceed calls = %d, want 2 (one failed, one succeeded)", fake.proceedCalls)
	}
}

func TestProceedFromCoolingRespectsGate(t *testing.T) {
	until := time.Now().Add(48 * time.Hour)
	fake := &fakeClient{createStatus: client.StatusCooling, createCooling: &until}
	s := NewSession(fake, uuid.New(), nil)
	completeWizard(t, s)

	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if hours, ok := s.RemainingHours(); !ok || hours != 48 {
		t.Errorf("RemainingHours() = %d, %v; want 48, true", hours, ok)
	}
	if _, err := s.ProceedFromCooling(context.Background()); err == nil {
		t.Fatal("ProceedFromCooling() should fail while the gate is closed")
	}
	if fake.proceedCalls != 0 {
		t.Fatalf("proceed calls = %d, want 0 while the gate is closed", fake.proceedCalls)
	}

	s.now = func() time.Time { return until.Add(time.Minute) }
	view, err := s.ProceedFromCooling(context.Background())
	if err != nil {
		t.Fatalf("ProceedFromCooling() after the deadline error = %v", err)
	}
	if view != ViewPassthrough {
		t.Errorf("ProceedFromCooling() view = %v, want %v", view, ViewPassthrough)
	}
}
