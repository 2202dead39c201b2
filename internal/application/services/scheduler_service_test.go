package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/adapters/storage"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

func newScheduler(llm *MockLanguageModel) (*services.SchedulerService, *services.BookingService) {
	bookings := services.NewBookingService(storage.NewMemoryAdapter(), nil, nil)
	var svc *services.SchedulerService
	if llm == nil {
		svc = services.NewSchedulerService(nil, newDirectoryService(), bookings, time.UTC)
	} else {
		svc = services.NewSchedulerService(llm, newDirectoryService(), bookings, time.UTC)
	}
	return svc.WithClock(fixedNow, &fixedRand{vals: []int{0}}), bookings
}

func TestSchedulerService_SuggestPreferredDate(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("ExtractStructured", mock.Anything, mock.MatchedBy(func(instruction string) bool {
		return strings.Contains(instruction, "Today is 2024-08-12")
	}), "Book Dr. Adams on August 15", mock.Anything).
		Return([]byte(`{"doctorName":"Dr. Adams","preferredDate":"2024-08-15"}`), nil)

	svc, _ := newScheduler(llm)
	suggestion, err := svc.Suggest(context.Background(), "s1", "  Book Dr. Adams on August 15 ")
	require.NoError(t, err)

	assert.Equal(t, "Dr. Adams", suggestion.Request.DoctorName)
	require.Len(t, suggestion.Slots, services.SuggestedSlotCount)
	want := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	for _, slot := range suggestion.Slots {
		assert.Equal(t, "D002", slot.Doctor.ID)
		assert.True(t, slot.Date.Equal(want))
		assert.Equal(t, "Thursday, August 15", slot.Day)
	}
	assert.Equal(t, entities.FlowStatusSuccess, svc.Status("s1").Status)
	assert.Equal(t, entities.FlowStatusIdle, svc.Status("s2").Status)
	llm.AssertExpectations(t)
}

func TestSchedulerService_SuggestUpcomingDays(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("ExtractStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`{"appointmentType":"check-up","preferredDate":"next week sometime"}`), nil)

	svc, _ := newScheduler(llm)
	suggestion, err := svc.Suggest(context.Background(), "s1", "I need a check-up")
	require.NoError(t, err)

	require.Len(t, suggestion.Slots, 3)
	for i, slot := range suggestion.Slots {
		assert.Equal(t, 13+i, slot.Date.Day())
		assert.Equal(t, "09:00 AM", slot.Time)
	}
}

func TestSchedulerService_SuggestMarksBookedSlots(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("ExtractStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`{"doctorName":"Emily Carter","preferredDate":"2024-08-15"}`), nil)

	svc, bookings := newScheduler(llm)
	_, _, err := bookings.Book(context.Background(), carter, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), "09:00 AM")
	require.NoError(t, err)

	suggestion, err := svc.Suggest(context.Background(), "s1", "Carter on the 15th")
	require.NoError(t, err)
	assert.True(t, suggestion.Slots[0].Booked)
	assert.False(t, suggestion.Slots[1].Booked)
}

func TestSchedulerService_SuggestEmptyTextSkipsModel(t *testing.T) {
	llm := new(MockLanguageModel)
	svc, _ := newScheduler(llm)

	_, err := svc.Suggest(context.Background(), "s1", "   ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	llm.AssertNotCalled(t, "ExtractStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, entities.FlowStatusIdle, svc.Status("s1").Status)
}

func TestSchedulerService_Unavailable(t *testing.T) {
	svc, _ := newScheduler(nil)

	assert.False(t, svc.Available())
	_, err := svc.Suggest(context.Background(), "s1", "Book Dr. Adams")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestSchedulerService_ExtractionFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		err  error
	}{
		{name: "model error", err: errors.New("status 500")},
		{name: "malformed json", raw: []byte(`{"doctorName":`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(MockLanguageModel)
			if tt.err != nil {
				llm.On("ExtractStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				llm.On("ExtractStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.raw, nil)
			}

			svc, _ := newScheduler(llm)
			suggestion, err := svc.Suggest(context.Background(), "s1", "book something")
			assert.Nil(t, suggestion)
			require.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

			appErr, _ := apperrors.As(err)
			assert.Equal(t, services.ScheduleParseFailedMessage, appErr.Message)

			state := svc.Status("s1")
			assert.Equal(t, entities.FlowStatusError, state.Status)
			assert.Equal(t, services.ScheduleParseFailedMessage, state.Error)
		})
	}
}

func TestSchedulerService_Confirm(t *testing.T) {
	svc, bookings := newScheduler(nil)
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)

	booking, created, err := svc.Confirm(context.Background(), services.ConfirmRequest{DoctorID: "D003", Date: date, Time: "02:00 PM"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Dr. Olivia Chen", booking.DoctorName)
	assert.Equal(t, "Pediatrics", booking.Specialization)
	assert.Equal(t, "2024-08-15T00:00:00.000Z-02:00 PM-Dr. Olivia Chen", booking.ID)
	assert.True(t, bookings.IsBooked(booking.ID))

	_, created, err = svc.Confirm(context.Background(), services.ConfirmRequest{DoctorID: "D003", Date: date, Time: "02:00 PM"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, bookings.Sorted(), 1)
}

func TestSchedulerService_ConfirmRejects(t *testing.T) {
	svc, _ := newScheduler(nil)
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.Confirm(context.Background(), services.ConfirmRequest{DoctorID: "D003", Date: date, Time: "10:00 AM"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, _, err = svc.Confirm(context.Background(), services.ConfirmRequest{DoctorID: "D003", Time: "09:00 AM"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, _, err = svc.Confirm(context.Background(), services.ConfirmRequest{DoctorID: "D999", Date: date, Time: "09:00 AM"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSchedulerService_PrefillText(t *testing.T) {
	svc, bookings := newScheduler(nil)

	assert.Empty(t, svc.PrefillText("s1"))

	bookings.SetPrefill(context.Background(), "s1", "Dr. Sofia Garcia")
	assert.Equal(t, "Book an appointment with Dr. Sofia Garcia for ", svc.PrefillText("s1"))
	assert.Empty(t, svc.PrefillText("s1"))
}
