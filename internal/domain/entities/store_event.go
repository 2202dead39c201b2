package entities

import (
	"time"

	"github.com/google/uuid"
)

// StoreEventType represents the kind of change applied to a store
type StoreEventType string

const (
	StoreEventDoctorAdded      StoreEventType = "doctor_added"
	StoreEventDoctorDeleted    StoreEventType = "doctor_deleted"
	StoreEventPatientAdded     StoreEventType = "patient_added"
	StoreEventPatientDeleted   StoreEventType = "patient_deleted"
	StoreEventBookingCreated   StoreEventType = "booking_created"
	StoreEventBookingCancelled StoreEventType = "booking_cancelled"
	StoreEventPrefillSet       StoreEventType = "prefill_set"
	StoreEventLoggedIn         StoreEventType = "logged_in"
	StoreEventLoggedOut        StoreEventType = "logged_out"
)

// StoreEvent notifies subscribers that a store changed
type StoreEvent struct {
	ID        string                 `json:"id"`
	Store     string                 `json:"store"`
	Type      StoreEventType         `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// NewStoreEvent creates a new store event stamped with the current time
func NewStoreEvent(store string, eventType StoreEventType, payload map[string]interface{}) *StoreEvent {
	return &StoreEvent{
		ID:        uuid.NewString(),
		Store:     store,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
