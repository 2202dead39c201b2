package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

const (
	// AssistantUnavailableMessage is returned when no API key is configured.
	AssistantUnavailableMessage = "AI assistant is not configured"

	// ScheduleParseFailedMessage is returned for any failed extraction.
	ScheduleParseFailedMessage = "Failed to parse appointment request. Please try rephrasing your request."
)

// Suggestion is the outcome of a scheduling request.
type Suggestion struct {
	Request entities.SchedulingRequest `json:"request"`
	Slots   []entities.Slot            `json:"slots"`
}

// ConfirmRequest selects a suggested slot for booking.
type ConfirmRequest struct {
	DoctorID string    `json:"doctorId"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
}

// SchedulerService turns free-text requests into bookable slots.
type SchedulerService struct {
	llm       providers.LanguageModelProvider
	directory *DirectoryService
	bookings  *BookingService
	status    *FlowTracker
	loc       *time.Location
	now       func() time.Time

	rngMu sync.Mutex
	rng   RandSource
}

// NewSchedulerService creates a scheduler. A nil llm disables suggestions.
func NewSchedulerService(llm providers.LanguageModelProvider, directory *DirectoryService, bookings *BookingService, loc *time.Location) *SchedulerService {
	if loc == nil {
		loc = time.Local
	}
	return &SchedulerService{
		llm:       llm,
		directory: directory,
		bookings:  bookings,
		status:    NewFlowTracker(),
		loc:       loc,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock replaces the clock and random source used for slot generation.
func (s *SchedulerService) WithClock(now func() time.Time, rng RandSource) *SchedulerService {
	s.now = now
	s.status.now = now
	s.rng = rng
	return s
}

// Suggest extracts the request with the language model and proposes slots.
func (s *SchedulerService) Suggest(ctx context.Context, owner, text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("request text is required")
	}
	if s.llm == nil {
		return nil, apperrors.NewUnavailableError(AssistantUnavailableMessage)
	}

	ctx, span := observability.StartSpan(ctx, "scheduler.suggest")
	defer span.End()

	s.status.set(owner, entities.FlowStatusLoading, "")

	request, err := s.extract(ctx, text)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Scheduling extraction failed")
		s.status.set(owner, entities.FlowStatusError, ScheduleParseFailedMessage)
		return nil, apperrors.NewExternalError(ScheduleParseFailedMessage, err)
	}

	doctors, err := s.directory.ListDoctors(ctx, "")
	if err != nil {
		s.status.set(owner, entities.FlowStatusError, err.Error())
		return nil, err
	}

	var preferred *time.Time
	if request.PreferredDate != "" {
		if d, err := time.ParseInLocation(entities.AdmissionDateLayout, request.PreferredDate, s.loc); err == nil {
			preferred = &d
		} else {
			observability.LoggerFromContext(ctx).Debug().Str("preferred_date", request.PreferredDate).Msg("Ignoring unparseable preferred date")
		}
	}

	s.rngMu.Lock()
	slots := GenerateSlots(FilterDoctors(doctors, request.DoctorName), preferred, s.now(), s.loc, s.rng, s.bookings.IsBooked)
	s.rngMu.Unlock()

	s.status.set(owner, entities.FlowStatusSuccess, "")
	return &Suggestion{Request: request, Slots: slots}, nil
}

func (s *SchedulerService) extract(ctx context.Context, text string) (entities.SchedulingRequest, error) {
	var request entities.SchedulingRequest

	instruction := fmt.Sprintf(schedulingSystemInstruction, s.now().In(s.loc).Format(entities.AdmissionDateLayout))
	raw, err := s.llm.ExtractStructured(ctx, instruction, text, schedulingSchema)
	if err != nil {
		return request, err
	}
	if err := json.Unmarshal(raw, &request); err != nil {
		return request, fmt.Errorf("malformed extraction: %w", err)
	}

	request.DoctorName = strings.TrimSpace(request.DoctorName)
	request.PreferredDate = strings.TrimSpace(request.PreferredDate)
	return request, nil
}

// Confirm books the selected slot.
func (s *SchedulerService) Confirm(ctx context.Context, req ConfirmRequest) (entities.BookedAppointment, bool, error) {
	if !isSlotTime(req.Time) {
		return entities.BookedAppointment{}, false, slotTimeError()
	}
	if req.Date.IsZero() {
		return entities.BookedAppointment{}, false, apperrors.NewValidationError("date is required")
	}

	doctors, err := s.directory.ListDoctors(ctx, "")
	if err != nil {
		return entities.BookedAppointment{}, false, err
	}
	for _, d := range doctors {
		if d.ID == req.DoctorID {
			return s.bookings.Book(ctx, d, req.Date, req.Time)
		}
	}
	return entities.BookedAppointment{}, false, apperrors.NewNotFoundError(fmt.Sprintf("doctor %s not found", req.DoctorID))
}

// PrefillText consumes owner's prefill and returns the request text the
// scheduler should start with, or "".
func (s *SchedulerService) PrefillText(owner string) string {
	name := s.bookings.ConsumePrefill(owner)
	if name == "" {
		return ""
	}
	return fmt.Sprintf("Book an appointment with %s for ", name)
}

// Status returns the last scheduling status for owner.
func (s *SchedulerService) Status(owner string) entities.FlowState {
	return s.status.Get(owner)
}

// Available reports whether a language model is configured.
func (s *SchedulerService) Available() bool {
	return s.llm != nil
}
