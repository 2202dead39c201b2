package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/adapters/directory"
	"github.com/zatekoja/hospitaladmin/internal/adapters/events"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

func TestDirectoryService_SearchDoctors(t *testing.T) {
	svc := newDirectoryService()
	ctx := context.Background()

	all, err := svc.ListDoctors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 15)

	bySpecialty, err := svc.ListDoctors(ctx, "  CARDIO ")
	require.NoError(t, err)
	require.Len(t, bySpecialty, 1)
	assert.Equal(t, "D001", bySpecialty[0].ID)

	none, err := svc.ListDoctors(ctx, "veterinary")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDirectoryService_SearchPatients(t *testing.T) {
	svc := newDirectoryService()
	ctx := context.Background()

	byID, err := svc.ListPatients(ctx, "p01")
	require.NoError(t, err)
	assert.Len(t, byID, 10)

	byName, err := svc.ListPatients(ctx, "garcia")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "P010", byName[0].ID)
}

func TestDirectoryService_AddDoctor(t *testing.T) {
	svc := newDirectoryService()

	doctor, err := svc.AddDoctor(context.Background(), entities.NewDoctor{Name: " Dr. Grace Hopper ", Specialization: "Radiology"})
	require.NoError(t, err)
	assert.Equal(t, entities.Doctor{ID: "D016", Name: "Dr. Grace Hopper", Specialization: "Radiology"}, doctor)

	_, err = svc.AddDoctor(context.Background(), entities.NewDoctor{Name: "Dr. Nobody"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestDirectoryService_AddPatient(t *testing.T) {
	tests := []struct {
		name    string
		in      entities.NewPatient
		wantErr bool
	}{
		{name: "explicit fields", in: entities.NewPatient{Name: "Ada", Age: 36, Room: "101A", Doctor: "Dr. Ben Adams", Condition: entities.ConditionCritical, AdmissionDate: "2024-08-10"}},
		{name: "defaults", in: entities.NewPatient{Name: "Ada", Age: 36, Room: "101A", Doctor: "Dr. Ben Adams"}},
		{name: "missing name", in: entities.NewPatient{Age: 36, Room: "101A", Doctor: "Dr. Ben Adams"}, wantErr: true},
		{name: "zero age", in: entities.NewPatient{Name: "Ada", Room: "101A", Doctor: "Dr. Ben Adams"}, wantErr: true},
		{name: "missing room", in: entities.NewPatient{Name: "Ada", Age: 36, Doctor: "Dr. Ben Adams"}, wantErr: true},
		{name: "missing doctor", in: entities.NewPatient{Name: "Ada", Age: 36, Room: "101A"}, wantErr: true},
		{name: "unknown condition", in: entities.NewPatient{Name: "Ada", Age: 36, Room: "101A", Doctor: "Dr. Ben Adams", Condition: "Bored"}, wantErr: true},
		{name: "bad date", in: entities.NewPatient{Name: "Ada", Age: 36, Room: "101A", Doctor: "Dr. Ben Adams", AdmissionDate: "10/08/2024"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newDirectoryService()
			patient, err := svc.AddPatient(context.Background(), tt.in)
			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
				patients, _ := svc.ListPatients(context.Background(), "")
				assert.Len(t, patients, 20)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "P021", patient.ID)
			assert.True(t, patient.Condition.Valid())
			_, err = time.Parse(entities.AdmissionDateLayout, patient.AdmissionDate)
			assert.NoError(t, err)
		})
	}
}

func TestDirectoryService_DeleteUnknown(t *testing.T) {
	svc := newDirectoryService()

	err := svc.DeleteDoctor(context.Background(), "D999")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	err = svc.DeletePatient(context.Background(), "P999")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestDirectoryService_DeleteLeavesReferences(t *testing.T) {
	svc := newDirectoryService()
	ctx := context.Background()

	require.NoError(t, svc.DeleteDoctor(ctx, "D001"))

	patients, err := svc.ListPatients(ctx, "")
	require.NoError(t, err)
	carterPatients := 0
	for _, p := range patients {
		if p.Doctor == "Dr. Emily Carter" {
			carterPatients++
		}
	}
	assert.Equal(t, 4, carterPatients)
}

func TestDirectoryService_PublishesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewMemoryEventBus()
	defer bus.Close()
	sub, err := bus.Subscribe(ctx, providers.EventChannelDirectory)
	require.NoError(t, err)

	store := directory.NewMemoryStore(directory.SeedDoctors(), directory.SeedPatients(testToday), directory.SeedAppointments())
	svc := services.NewDirectoryService(store, services.NewEventPublisher(bus, nil))

	require.NoError(t, svc.DeletePatient(ctx, "P003"))

	select {
	case event := <-sub:
		assert.Equal(t, entities.StoreEventPatientDeleted, event.Type)
		assert.Equal(t, "P003", event.Payload["id"])
	case <-time.After(time.Second):
		t.Fatal("no directory event")
	}
}
