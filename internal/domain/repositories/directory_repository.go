package repositories

import (
	"context"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// DirectoryRepository holds the doctor and patient collections and the
// schedule board. List operations return copies in insertion order.
type DirectoryRepository interface {
	ListDoctors(ctx context.Context) ([]entities.Doctor, error)
	AddDoctor(ctx context.Context, doctor entities.NewDoctor) (entities.Doctor, error)
	// DeleteDoctor reports whether an entry was removed.
	DeleteDoctor(ctx context.Context, id string) (bool, error)

	ListPatients(ctx context.Context) ([]entities.Patient, error)
	AddPatient(ctx context.Context, patient entities.NewPatient) (entities.Patient, error)
	DeletePatient(ctx context.Context, id string) (bool, error)

	ListAppointments(ctx context.Context) ([]entities.Appointment, error)
}
