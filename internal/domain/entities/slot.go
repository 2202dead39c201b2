package entities

import "time"

// SchedulingRequest is the structured extraction of a free-text booking
// request. Every field is optional.
type SchedulingRequest struct {
	DoctorName      string `json:"doctorName,omitempty"`
	PatientName     string `json:"patientName,omitempty"`
	AppointmentType string `json:"appointmentType,omitempty"`
	TimePreference  string `json:"timePreference,omitempty"`
	PreferredDate   string `json:"preferredDate,omitempty"`
}

// Slot is a candidate (doctor, date, time) offered for booking.
type Slot struct {
	ID     string    `json:"id"`
	Doctor Doctor    `json:"doctor"`
	Day    string    `json:"day"`
	Time   string    `json:"time"`
	Date   time.Time `json:"date"`
	Booked bool      `json:"booked"`
}

// FlowStatus is the lifecycle of an asynchronous assistant request.
type FlowStatus string

const (
	FlowStatusIdle    FlowStatus = "idle"
	FlowStatusLoading FlowStatus = "loading"
	FlowStatusSuccess FlowStatus = "success"
	FlowStatusError   FlowStatus = "error"
)

// FlowState is the last observed status of an assistant flow.
type FlowState struct {
	Status    FlowStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
