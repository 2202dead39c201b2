package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// DirectoryService exposes the doctor and patient directories
type DirectoryService struct {
	repo   repositories.DirectoryRepository
	events *EventPublisher
	now    func() time.Time
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(repo repositories.DirectoryRepository, events *EventPublisher) *DirectoryService {
	return &DirectoryService{repo: repo, events: events, now: time.Now}
}

// ListDoctors returns doctors whose name or specialization contains search
func (s *DirectoryService) ListDoctors(ctx context.Context, search string) ([]entities.Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return doctors, nil
	}
	out := make([]entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Name), term) || strings.Contains(strings.ToLower(d.Specialization), term) {
			out = append(out, d)
		}
	}
	return out, nil
}

// AddDoctor validates and stores a new doctor
func (s *DirectoryService) AddDoctor(ctx context.Context, in entities.NewDoctor) (entities.Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Specialization = strings.TrimSpace(in.Specialization)
	if in.Name == "" || in.Specialization == "" {
		return entities.Doctor{}, apperrors.NewValidationError("name and specialization are required")
	}

	doctor, err := s.repo.AddDoctor(ctx, in)
	if err != nil {
		return entities.Doctor{}, apperrors.NewInternalError("failed to add doctor", err)
	}

	s.events.Publish(ctx, providers.EventChannelDirectory, entities.StoreEventDoctorAdded, map[string]interface{}{"id": doctor.ID})
	return doctor, nil
}

// DeleteDoctor removes a doctor. Patients and bookings naming the doctor are left untouched.
func (s *DirectoryService) DeleteDoctor(ctx context.Context, id string) error {
	removed, err := s.repo.DeleteDoctor(ctx, id)
	if err != nil {
		return apperrors.NewInternalError("failed to delete doctor", err)
	}
	if !removed {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor %s not found", id))
	}

	s.events.Publish(ctx, providers.EventChannelDirectory, entities.StoreEventDoctorDeleted, map[string]interface{}{"id": id})
	return nil
}

// ListPatients returns patients whose name or id contains search
func (s *DirectoryService) ListPatients(ctx context.Context, search string) ([]entities.Patient, error) {
	patients, err := s.repo.ListPatients(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return patients, nil
	}
	out := make([]entities.Patient, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.ID), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AddPatient validates and admits a new patient. An empty admission date
// means today.
func (s *DirectoryService) AddPatient(ctx context.Context, in entities.NewPatient) (entities.Patient, error) {
	if err := s.normalizePatient(&in); err != nil {
		return entities.Patient{}, err
	}

	patient, err := s.repo.AddPatient(ctx, in)
	if err != nil {
		return entities.Patient{}, apperrors.NewInternalError("failed to add patient", err)
	}

	s.events.Publish(ctx, providers.EventChannelDirectory, entities.StoreEventPatientAdded, map[string]interface{}{"id": patient.ID})
	return patient, nil
}

func (s *DirectoryService) normalizePatient(in *entities.NewPatient) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Room = strings.TrimSpace(in.Room)
	in.Doctor = strings.TrimSpace(in.Doctor)
	in.AdmissionDate = strings.TrimSpace(in.AdmissionDate)

	switch {
	case in.Name == "":
		return apperrors.NewValidationError("name is required")
	case in.Age <= 0:
		return apperrors.NewValidationError("age must be positive")
	case in.Room == "":
		return apperrors.NewValidationError("room is required")
	case in.Doctor == "":
		return apperrors.NewValidationError("doctor is required")
	}

	if in.Condition == "" {
		in.Condition = entities.ConditionStable
	}
	if !in.Condition.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown condition %q", in.Condition))
	}

	if in.AdmissionDate == "" {
		in.AdmissionDate = s.now().Format(entities.AdmissionDateLayout)
	} else if _, err := time.Parse(entities.AdmissionDateLayout, in.AdmissionDate); err != nil {
		return apperrors.NewValidationError("admissionDate must be YYYY-MM-DD")
	}
	return nil
}

// DeletePatient removes a patient
func (s *DirectoryService) DeletePatient(ctx context.Context, id string) error {
	removed, err := s.repo.DeletePatient(ctx, id)
	if err != nil {
		return apperrors.NewInternalError("failed to delete patient", err)
	}
	if !removed {
		return apperrors.NewNotFoundError(fmt.Sprintf("patient %s not found", id))
	}

	s.events.Publish(ctx, providers.EventChannelDirectory, entities.StoreEventPatientDeleted, map[string]interface{}{"id": id})
	return nil
}

// ListAppointments returns today's schedule board
func (s *DirectoryService) ListAppointments(ctx context.Context) ([]entities.Appointment, error) {
	appointments, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	return appointments, nil
}
