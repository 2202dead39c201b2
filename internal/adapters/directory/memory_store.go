package directory

import (
	"context"
	"sync"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/repositories"
)

// MemoryStore is the in-memory doctor and patient directory. A single mutex
// serialises every mutation, so concurrent adds always receive distinct ids.
// The last issued id of each collection is remembered so that deleting the
// newest entry does not make its id available again.
type MemoryStore struct {
	mu            sync.RWMutex
	doctors       []entities.Doctor
	patients      []entities.Patient
	appointments  []entities.Appointment
	lastDoctorID  string
	lastPatientID string
}

// NewMemoryStore creates a store holding the given collections
func NewMemoryStore(doctors []entities.Doctor, patients []entities.Patient, appointments []entities.Appointment) *MemoryStore {
	s := &MemoryStore{
		doctors:      append([]entities.Doctor(nil), doctors...),
		patients:     append([]entities.Patient(nil), patients...),
		appointments: append([]entities.Appointment(nil), appointments...),
	}

	doctorIDs := make([]string, len(doctors))
	for i, d := range doctors {
		doctorIDs[i] = d.ID
	}
	patientIDs := make([]string, len(patients))
	for i, p := range patients {
		patientIDs[i] = p.ID
	}
	s.lastDoctorID = entities.HighestSequentialID(entities.DoctorIDPrefix, doctorIDs)
	s.lastPatientID = entities.HighestSequentialID(entities.PatientIDPrefix, patientIDs)
	return s
}

var _ repositories.DirectoryRepository = (*MemoryStore)(nil)

func (s *MemoryStore) ListDoctors(ctx context.Context) ([]entities.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Doctor(nil), s.doctors...), nil
}

func (s *MemoryStore) AddDoctor(ctx context.Context, in entities.NewDoctor) (entities.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.doctors)+1)
	for _, d := range s.doctors {
		ids = append(ids, d.ID)
	}
	ids = append(ids, s.lastDoctorID)
	doctor := entities.Doctor{
		ID:             entities.NextSequentialID(entities.DoctorIDPrefix, ids),
		Name:           in.Name,
		Specialization: in.Specialization,
	}
	s.doctors = append(s.doctors, doctor)
	s.lastDoctorID = doctor.ID
	return doctor, nil
}

func (s *MemoryStore) DeleteDoctor(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.doctors {
		if d.ID == id {
			s.doctors = append(s.doctors[:i:i], s.doctors[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListPatients(ctx context.Context) ([]entities.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Patient(nil), s.patients...), nil
}

func (s *MemoryStore) AddPatient(ctx context.Context, in entities.NewPatient) (entities.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.patients)+1)
	for _, p := range s.patients {
		ids = append(ids, p.ID)
	}
	ids = append(ids, s.lastPatientID)
	patient := entities.Patient{
		ID:            entities.NextSequentialID(entities.PatientIDPrefix, ids),
		Name:          in.Name,
		Age:           in.Age,
		Room:          in.Room,
		Condition:     in.Condition,
		Doctor:        in.Doctor,
		AdmissionDate: in.AdmissionDate,
	}
	s.patients = append(s.patients, patient)
	s.lastPatientID = patient.ID
	return patient, nil
}

func (s *MemoryStore) DeletePatient(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.patients {
		if p.ID == id {
			s.patients = append(s.patients[:i:i], s.patients[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListAppointments(ctx context.Context) ([]entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Appointment(nil), s.appointments...), nil
}
