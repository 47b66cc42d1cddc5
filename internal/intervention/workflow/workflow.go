// Package workflow drives the sensitive-action intervention wizard that
// gates a pet rehoming: four validated steps, submission to the rehoming
// authority, and routing into the cooling gate or straight through when the
// authority clears the action immediately.
//
// A Session is client-local and ephemeral. Nothing is persisted until
// Submit succeeds; abandoning the wizard leaves no partial record behind.
// This is deliberate and differs from the draft-autosave used by the
// profile-builder flows elsewhere in the application.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"petcircle_backend/internal/intervention/client"
	"petcircle_backend/internal/intervention/coolinggate"
	"petcircle_backend/internal/intervention/policy"
	"petcircle_backend/platform/apperr"
	"petcircle_backend/platform/logger"

	"github.com/google/uuid"
)

// View identifies the single view currently shown. One authoritative value
// rather than independent booleans, so contradictory UI states cannot exist.
type View int

const (
	ViewEntry View = iota
	ViewStep1
	ViewStep2
	ViewStep3
	ViewStep4
	ViewCooling
	ViewPassthrough
)

// String returns the view name for logging.
func (v View) String() string {
	switch v {
	case ViewEntry:
		return "entry"
	case ViewStep1:
		return "step_1"
	case ViewStep2:
		return "step_2"
	case ViewStep3:
		return "step_3"
	case ViewStep4:
		return "step_4"
	case ViewCooling:
		return "cooling"
	case ViewPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// AttemptedSolutions is the step-3 answer about alternatives tried.
type AttemptedSolutions string

const (
	AttemptedNone    AttemptedSolutions = "no"
	AttemptedPartial AttemptedSolutions = "yes_partial"
	AttemptedAll     AttemptedSolutions = "yes_all"
)

// Acknowledgments is the seven-item final checklist. Every flag must be
// confirmed before submission.
type Acknowledgments struct {
	Resources       bool
	Permanent       bool
	Honest          bool
	Exclusive       bool
	Responsibility  bool
	CoolingPeriod   bool
	AccurateListing bool
}

// AllConfirmed reports whether every acknowledgment has been checked.
func (a Acknowledgments) AllConfirmed() bool {
	return a.Resources && a.Permanent && a.Honest && a.Exclusive &&
		a.Responsibility && a.CoolingPeriod && a.AccurateListing
}

const minExplanationLength = 50

// Session is one owner's pass through the intervention wizard for a subject.
// It is not safe for concurrent use; the UI drives it from a single goroutine.
type Session struct {
	client    client.Client
	gate      *coolinggate.Gate
	subjectID uuid.UUID
	log       *logger.Logger
	now       func() time.Time

	view   View
	record *client.Record

	// Step 1
	reason      policy.ReasonCategory
	explanation string
	urgencyText string

	// Step 2
	reviewed map[string]bool

	// Step 3
	attempted AttemptedSolutions
	permanent *bool
	certainty int

	// Step 4
	acks       Acknowledgments
	commitment string
}

// NewSession creates a wizard session for the given subject. Call Start
// before rendering anything: an existing record may skip the wizard entirely.
func NewSession(c client.Client, subjectID uuid.UUID, log *logger.Logger) *Session {
	return &Session{
		client:    c,
		gate:      coolinggate.New(c),
		subjectID: subjectID,
		log:       log,
		now:       time.Now,
		view:      ViewEntry,
		reviewed:  make(map[string]bool),
		certainty: 5,
	}
}

// View returns the current authoritative view.
func (s *Session) View() View {
	return s.view
}

// Record returns the authority record once one is known (after Start found
// one, or after Submit), or nil.
func (s *Session) Record() *client.Record {
	return s.record
}

// Start resolves resumption before the entry view renders. An active cooling
// record routes straight to the cooling view; a proceeded record means the
// action is already cleared. A started or acknowledged record left over from
// an interrupted immediate-clear submission gets its pending proceed retried.
func (s *Session) Start(ctx context.Context) (View, error) {
	record, err := s.client.GetActive(ctx, s.subjectID)
	if err != nil {
		return s.view, err
	}

	if record == nil {
		s.view = ViewEntry
		return s.view, nil
	}

	s.record = record
	switch record.Status {
	case client.StatusCooling:
		s.view = ViewCooling
	case client.StatusProceeded:
		s.view = ViewPassthrough
	case client.StatusStarted, client.StatusAcknowledged:
		return s.finishProceed(ctx)
	}

	s.logInfo("intervention resumed", "subjectId", s.subjectID, "view", s.view.String())
	return s.view, nil
}

// DismissIntro moves from the introductory disclosure into step 1.
// No network call is involved.
func (s *Session) DismissIntro() {
	if s.view == ViewEntry {
		s.view = ViewStep1
	}
}

// SetReason selects the primary reason category. Changing the reason resets
// nothing: already-reviewed resources stay checked, and the step-2 gate
// simply requires whatever the new category's resource set demands.
func (s *Session) SetReason(reason policy.ReasonCategory) error {
	if !reason.Valid() {
		return apperr.Validation("unknown reason category")
	}
	s.reason = reason
	return nil
}

// SetExplanation records the detailed explanation text.
func (s *Session) SetExplanation(text string) {
	s.explanation = text
}

// SetUrgency records the selected urgency option phrase.
func (s *Session) SetUrgency(text string) {
	s.urgencyText = text
}

// Resources returns the remediation resources the current reason requires.
func (s *Session) Resources() []policy.Resource {
	return policy.ResourcesFor(s.reason)
}

// MarkResourceReviewed checks off one remediation resource. Only identifiers
// belonging to the current reason's resource set are accepted.
func (s *Session) MarkResourceReviewed(id string) error {
	for _, required := range policy.ResourceIDsFor(s.reason) {
		if required == id {
			s.reviewed[id] = true
			return nil
		}
	}
	return apperr.Validation("unknown resource id")
}

// SetAttempted records the attempted-solutions answer.
func (s *Session) SetAttempted(answer AttemptedSolutions) error {
	switch answer {
	case AttemptedNone, AttemptedPartial, AttemptedAll:
		s.attempted = answer
		return nil
	default:
		return apperr.Validation("unknown attempted-solutions answer")
	}
}

// SetPermanent records the explicit permanence answer. The value starts
// unset and blocks step 3 until answered either way.
func (s *Session) SetPermanent(permanent bool) {
	s.permanent = &permanent
}

// SetCertainty adjusts the 1-10 certainty scale. It never blocks
// advancement; out-of-range values are rejected.
func (s *Session) SetCertainty(value int) error {
	if value < 1 || value > 10 {
		return apperr.Validation("certainty must be between 1 and 10")
	}
	s.certainty = value
	return nil
}

// SetAcknowledgments replaces the final checklist state.
func (s *Session) SetAcknowledgments(acks Acknowledgments) {
	s.acks = acks
}

// SetCommitment records the optional commitment statement.
func (s *Session) SetCommitment(text string) {
	s.commitment = text
}

// CanAdvance reports whether the current step's completion gate passes.
// A nil result means Next (or Submit, on step 4) is allowed.
func (s *Session) CanAdvance() error {
	switch s.view {
	case ViewStep1:
		return s.step1Gate()
	case ViewStep2:
		return s.step2Gate()
	case ViewStep3:
		return s.step3Gate()
	case ViewStep4:
		return s.step4Gate()
	default:
		return apperr.Validation("no step to advance from")
	}
}

func (s *Session) step1Gate() error {
	if !s.reason.Valid() {
		return apperr.Validation("select a reason")
	}
	if utf8.RuneCountInString(s.explanation) < minExplanationLength {
		return apperr.Validation(fmt.Sprintf("explanation must be at least %d characters", minExplanationLength))
	}
	for _, option := range policy.UrgencyOptions() {
		if s.urgencyText == option {
			return nil
		}
	}
	return apperr.Validation("select an urgency option")
}

func (s *Session) step2Gate() error {
	for _, id := range policy.ResourceIDsFor(s.reason) {
		if !s.reviewed[id] {
			return apperr.Validation("review every resource before continuing")
		}
	}
	return nil
}

func (s *Session) step3Gate() error {
	if s.attempted == "" {
		return apperr.Validation("answer whether you attempted solutions")
	}
	if s.permanent == nil {
		return apperr.Validation("answer whether the decision is permanent")
	}
	return nil
}

func (s *Session) step4Gate() error {
	if !s.acks.AllConfirmed() {
		return apperr.Validation("confirm all acknowledgments")
	}
	return nil
}

// Next advances one step after the current step's gate passes.
// Step 4 does not advance through Next; call Submit.
func (s *Session) Next() error {
	if s.view < ViewStep1 || s.view > ViewStep3 {
		return apperr.Validation("cannot advance from this view")
	}
	if err := s.CanAdvance(); err != nil {
		return err
	}
	s.view++
	return nil
}

// Back moves one step backward. Entered data is never cleared.
func (s *Session) Back() {
	if s.view >= ViewStep1 && s.view <= ViewStep4 {
		s.view--
	}
}

// Submit sends the completed wizard to the authority and routes to the
// resulting view. On a transport failure the session stays on step 4 with
// every answer intact; retrying reuses the identical payload, and a create
// that already succeeded is never repeated while its follow-up proceed is
// still pending.
func (s *Session) Submit(ctx context.Context) (View, error) {
	if s.view != ViewStep4 {
		return s.view, apperr.Validation("submit is only available on the final step")
	}
	if err := s.step4Gate(); err != nil {
		return s.view, err
	}

	if s.record == nil {
		record, err := s.client.Create(ctx, s.buildPayload())
		if err != nil {
			return s.view, err
		}
		s.record = &record
		s.logInfo("intervention submitted",
			"subjectId", s.subjectID,
			"interventionId", record.ID,
			"status", string(record.Status),
		)
	}

	switch s.record.Status {
	case client.StatusCooling:
		s.view = ViewCooling
		return s.view, nil
	case client.StatusProceeded:
		s.view = ViewPassthrough
		return s.view, nil
	default:
		// started or acknowledged: the authority cleared the action
		// immediately, finish with the authoritative proceed transition.
		return s.finishProceed(ctx)
	}
}

// finishProceed issues the terminal transition for an immediately-cleared
// record. The record id always comes from an awaited create or get-active
// response, so proceed can never race ahead of create.
func (s *Session) finishProceed(ctx context.Context) (View, error) {
	record, err := s.gate.Proceed(ctx, s.record.ID)
	if err != nil {
		return s.view, err
	}
	s.record = &record
	s.view = ViewPassthrough
	s.logInfo("intervention proceeded", "interventionId", record.ID)
	return s.view, nil
}

// buildPayload assembles the outbound submission from the wizard answers.
func (s *Session) buildPayload() client.CreatePayload {
	required := policy.ResourceIDsFor(s.reason)
	viewed := make([]string, 0, len(required))
	for _, id := range required {
		if s.reviewed[id] {
			viewed = append(viewed, id)
		}
	}

	return client.CreatePayload{
		SubjectID:             s.subjectID,
		ReasonCode:            policy.WireReasonCode(s.reason),
		UrgencyBucket:         policy.BucketForText(s.urgencyText),
		ResourcesViewed:       viewed,
		ResourcesAcknowledged: len(viewed) == len(required),
		AcknowledgedAt:        s.now(),
		ReasonText:            s.buildReasonText(),
	}
}

// buildReasonText concatenates the explanation with a structured summary of
// the reflection answers, mirroring what the authority stores as narrative.
func (s *Session) buildReasonText() string {
	permanent := "unanswered"
	if s.permanent != nil {
		if *s.permanent {
			permanent = "yes"
		} else {
			permanent = "no"
		}
	}

	var b strings.Builder
	b.WriteString(s.explanation)
	b.WriteString("\n\n")
	b.WriteString("Attempted solutions: " + string(s.attempted) + "\n")
	b.WriteString("Permanent decision: " + permanent + "\n")
	b.WriteString(fmt.Sprintf("Certainty: %d/10", s.certainty))
	if s.commitment != "" {
		b.WriteString("\nCommitment: " + s.commitment)
	}
	return b.String()
}

// CoolingUntil returns the authority-set gate deadline while the session is
// in the cooling view.
func (s *Session) CoolingUntil() (time.Time, bool) {
	if s.record == nil || s.record.CoolingUntil == nil {
		return time.Time{}, false
	}
	return *s.record.CoolingUntil, true
}

// RemainingHours evaluates the gate against the current wall clock. The
// value is recomputed on every call; there is no background timer.
func (s *Session) RemainingHours() (int, bool) {
	until, ok := s.CoolingUntil()
	if !ok {
		return 0, false
	}
	return coolinggate.RemainingHours(until, s.now()), true
}

// ProceedFromCooling invokes the proceed transition once the gate is open.
// While the gate is closed the only available action is leaving the view,
// which mutates nothing.
func (s *Session) ProceedFromCooling(ctx context.Context) (View, error) {
	if s.view != ViewCooling {
		return s.view, apperr.Validation("not in the cooling view")
	}
	until, ok := s.CoolingUntil()
	if !ok {
		return s.view, apperr.Validation("no cooling deadline on record")
	}
	if !coolinggate.IsOpen(until, s.now()) {
		return s.view, apperr.Validation("cooling period has not elapsed")
	}
	return s.finishProceed(ctx)
}

func (s *Session) logInfo(msg string, args ...any) {
	if s.log != nil {
		s.log.Info(msg, args...)
	}
}
