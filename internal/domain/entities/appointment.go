package entities

import (
	"fmt"
	"time"
)

// AppointmentType classifies entries on the daily schedule board.
type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "Consultation"
	AppointmentTypeCheckUp      AppointmentType = "Check-up"
	AppointmentTypeFollowUp     AppointmentType = "Follow-up"
	AppointmentTypeSurgery      AppointmentType = "Surgery"
	AppointmentTypeTherapy      AppointmentType = "Therapy"
)

// Appointment is a read-only entry of today's schedule board.
type Appointment struct {
	Time        string          `json:"time"`
	PatientName string          `json:"patientName"`
	DoctorName  string          `json:"doctorName"`
	Type        AppointmentType `json:"type"`
}

// BookedAppointment is a committed reservation made through the scheduler.
type BookedAppointment struct {
	ID             string    `json:"id"`
	DoctorName     string    `json:"doctorName"`
	Specialization string    `json:"specialization"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
}

// isoInstantLayout renders instants the way browsers do for Date.toISOString.
const isoInstantLayout = "2006-01-02T15:04:05.000Z"

// BookingID derives the de-duplication key of a booking from its date, time
// and doctor. Equal tuples always produce equal ids.
func BookingID(date time.Time, slotTime, doctorName string) string {
	return fmt.Sprintf("%s-%s-%s", date.UTC().Format(isoInstantLayout), slotTime, doctorName)
}
