package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// BookingService holds committed bookings and the per-session scheduler
// prefill. Every change is written to storage before it becomes visible, so the
// in-memory list and the persisted list never diverge.
type BookingService struct {
	mu       sync.Mutex
	storage  providers.StorageProvider
	events   *EventPublisher
	metrics  *observability.Metrics
	bookings []entities.BookedAppointment
	prefill  map[string]string
}

// NewBookingService creates an empty booking store; call Load to rehydrate.
func NewBookingService(storage providers.StorageProvider, events *EventPublisher, metrics *observability.Metrics) *BookingService {
	return &BookingService{
		storage: storage,
		events:  events,
		metrics: metrics,
		prefill: make(map[string]string),
	}
}

// Load rehydrates bookings from storage. A missing key means no bookings; an
// unreadable value is logged and discarded.
func (s *BookingService) Load(ctx context.Context) error {
	data, err := s.storage.Get(ctx, providers.StorageKeyBookedAppointments)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}

	var bookings []entities.BookedAppointment
	if err := json.Unmarshal(data, &bookings); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Discarding unreadable persisted bookings")
		return nil
	}

	s.mu.Lock()
	s.bookings = dedupe(bookings)
	s.mu.Unlock()
	return nil
}

func dedupe(bookings []entities.BookedAppointment) []entities.BookedAppointment {
	seen := make(map[string]bool, len(bookings))
	out := make([]entities.BookedAppointment, 0, len(bookings))
	for _, b := range bookings {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		out = append(out, b)
	}
	return out
}

// Book reserves (doctor, date, time). The time must be one of SlotTimes.
// Booking an id that already exists is a
// no-op that returns the stored booking with created=false.
func (s *BookingService) Book(ctx context.Context, doctor entities.Doctor, date time.Time, slotTime string) (entities.BookedAppointment, bool, error) {
	if strings.TrimSpace(doctor.Name) == "" || strings.TrimSpace(slotTime) == "" || date.IsZero() {
		return entities.BookedAppointment{}, false, apperrors.NewValidationError("doctor, date and time are required")
	}
	if !isSlotTime(slotTime) {
		return entities.BookedAppointment{}, false, slotTimeError()
	}

	booking := entities.BookedAppointment{
		ID:             entities.BookingID(date, slotTime, doctor.Name),
		DoctorName:     doctor.Name,
		Specialization: doctor.Specialization,
		Date:           date,
		Time:           slotTime,
	}

	s.mu.Lock()
	for _, existing := range s.bookings {
		if existing.ID == booking.ID {
			s.mu.Unlock()
			observability.RecordBooking(ctx, s.metrics, false)
			return existing, false, nil
		}
	}

	next := make([]entities.BookedAppointment, len(s.bookings), len(s.bookings)+1)
	copy(next, s.bookings)
	next = append(next, booking)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return entities.BookedAppointment{}, false, err
	}
	s.bookings = next
	s.mu.Unlock()

	observability.RecordBooking(ctx, s.metrics, true)
	s.events.Publish(ctx, providers.EventChannelBookings, entities.StoreEventBookingCreated, map[string]interface{}{"id": booking.ID})
	return booking, true, nil
}

// Cancel removes a booking by id. Cancelling an unknown id is a no-op that
// reports false.
func (s *BookingService) Cancel(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := -1
	for i, b := range s.bookings {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := make([]entities.BookedAppointment, 0, len(s.bookings)-1)
	next = append(next, s.bookings[:idx]...)
	next = append(next, s.bookings[idx+1:]...)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.bookings = next
	s.mu.Unlock()

	s.events.Publish(ctx, providers.EventChannelBookings, entities.StoreEventBookingCancelled, map[string]interface{}{"id": id})
	return true, nil
}

// persist must be called with s.mu held.
func (s *BookingService) persist(ctx context.Context, bookings []entities.BookedAppointment) error {
	data, err := json.Marshal(bookings)
	if err != nil {
		return apperrors.NewInternalError("failed to encode bookings", err)
	}
	if err := s.storage.Set(ctx, providers.StorageKeyBookedAppointments, data, 0); err != nil {
		return apperrors.NewInternalError("failed to persist bookings", err)
	}
	return nil
}

// Sorted returns a copy of the bookings ordered by date, earliest first.
// Bookings on the same instant keep insertion order.
func (s *BookingService) Sorted() []entities.BookedAppointment {
	s.mu.Lock()
	out := append([]entities.BookedAppointment(nil), s.bookings...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// IsBooked reports whether id is a committed booking.
func (s *BookingService) IsBooked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return true
		}
	}
	return false
}

// SetPrefill stores the doctor name owner's scheduler should start from.
// An empty name clears it.
func (s *BookingService) SetPrefill(ctx context.Context, owner, doctorName string) {
	doctorName = strings.TrimSpace(doctorName)

	s.mu.Lock()
	if doctorName == "" {
		delete(s.prefill, owner)
	} else {
		s.prefill[owner] = doctorName
	}
	s.mu.Unlock()

	s.events.Publish(ctx, providers.EventChannelBookings, entities.StoreEventPrefillSet, nil)
}

// ConsumePrefill returns owner's pending prefill and clears it.
func (s *BookingService) ConsumePrefill(owner string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.prefill[owner]
	delete(s.prefill, owner)
	return name
}
