package directory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

func seededStore() *MemoryStore {
	today := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	return NewMemoryStore(SeedDoctors(), SeedPatients(today), SeedAppointments())
}

func TestSeed(t *testing.T) {
	today := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	patients := SeedPatients(today)

	assert.Len(t, SeedDoctors(), 15)
	assert.Len(t, SeedAppointments(), 13)
	require.Len(t, patients, 20)
	assert.Equal(t, "2024-08-13", patients[0].AdmissionDate)
	assert.Equal(t, "2024-08-08", patients[10].AdmissionDate)
}

func TestAddDoctor_UsesNextIDAfterGap(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	removed, err := store.DeleteDoctor(ctx, "D015")
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = store.DeleteDoctor(ctx, "D007")
	require.NoError(t, err)
	require.True(t, removed)

	doctor, err := store.AddDoctor(ctx, entities.NewDoctor{Name: "Dr. Ada Ray", Specialization: "Radiology"})
	require.NoError(t, err)
	assert.Equal(t, "D016", doctor.ID)

	doctor, err = store.AddDoctor(ctx, entities.NewDoctor{Name: "Dr. Max Bell", Specialization: "Radiology"})
	require.NoError(t, err)
	assert.Equal(t, "D017", doctor.ID)
}

func TestAddDoctor_NeverReusesIssuedID(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	added, err := store.AddDoctor(ctx, entities.NewDoctor{Name: "Dr. Ada Ray", Specialization: "Radiology"})
	require.NoError(t, err)
	require.Equal(t, "D016", added.ID)

	removed, err := store.DeleteDoctor(ctx, "D016")
	require.NoError(t, err)
	require.True(t, removed)

	added, err = store.AddDoctor(ctx, entities.NewDoctor{Name: "Dr. Max Bell", Specialization: "Radiology"})
	require.NoError(t, err)
	assert.Equal(t, "D017", added.ID)
}

func TestAddPatient_EmptyCollection(t *testing.T) {
	store := NewMemoryStore(nil, nil, nil)

	patient, err := store.AddPatient(context.Background(), entities.NewPatient{Name: "A", Age: 30, Room: "1A", Condition: entities.ConditionStable, Doctor: "Dr. X", AdmissionDate: "2024-08-15"})
	require.NoError(t, err)
	assert.Equal(t, "P001", patient.ID)
}

func TestDeletePatient_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	before, _ := store.ListPatients(ctx)
	removed, err := store.DeletePatient(ctx, "P005")
	require.NoError(t, err)
	assert.True(t, removed)

	after, _ := store.ListPatients(ctx)
	require.Len(t, after, len(before)-1)

	expected := make([]string, 0, len(before)-1)
	for _, p := range before {
		if p.ID != "P005" {
			expected = append(expected, p.ID)
		}
	}
	got := make([]string, len(after))
	for i, p := range after {
		got[i] = p.ID
	}
	assert.Equal(t, expected, got)

	removed, err = store.DeletePatient(ctx, "P005")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	doctors, _ := store.ListDoctors(ctx)
	doctors[0].Name = "changed"

	again, _ := store.ListDoctors(ctx)
	assert.Equal(t, "Dr. Emily Carter", again[0].Name)
}

func TestConcurrentAddsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.AddDoctor(ctx, entities.NewDoctor{Name: fmt.Sprintf("Dr. %d", i), Specialization: "General"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doctors, _ := store.ListDoctors(ctx)
	seen := make(map[string]bool)
	for _, d := range doctors {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
	}
	assert.Len(t, seen, 50)
	assert.True(t, seen["D050"])
}
