package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

func newDashboard() *services.DashboardService {
	return services.NewDashboardService(newDirectoryService(), time.UTC).WithClock(fixedNow)
}

func TestDashboardService_Stats(t *testing.T) {
	stats, err := newDashboard().Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.DashboardStats{Total: 20, Critical: 4, Stable: 8, Recovering: 4}, stats)
}

func TestDashboardService_ConditionDistribution(t *testing.T) {
	counts, err := newDashboard().ConditionDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.ConditionCount{
		{Condition: entities.ConditionStable, Count: 8},
		{Condition: entities.ConditionCritical, Count: 4},
		{Condition: entities.ConditionRecovering, Count: 4},
		{Condition: entities.ConditionUnderObservation, Count: 4},
	}, counts)
}

func TestDashboardService_DoctorWorkload(t *testing.T) {
	workload, err := newDashboard().DoctorWorkload(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, workload)
	assert.Equal(t, entities.DoctorWorkload{Name: "Emily Carter", Count: 3}, workload[0])
	assert.Equal(t, entities.DoctorWorkload{Name: "Ben Adams", Count: 2}, workload[1])

	total := 0
	for _, w := range workload {
		assert.NotContains(t, w.Name, "Dr. ")
		total += w.Count
	}
	assert.Equal(t, 13, total)
}

func TestDashboardService_Admissions(t *testing.T) {
	days, err := newDashboard().Admissions(context.Background())
	require.NoError(t, err)
	require.Len(t, days, services.AdmissionsWindowDays)

	assert.True(t, days[0].Date.Equal(time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC)))
	assert.True(t, days[6].Date.Equal(time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)))

	counts := make([]int, len(days))
	for i, d := range days {
		counts[i] = d.Count
	}
	assert.Equal(t, []int{2, 2, 2, 2, 3, 4, 4}, counts)
}

func TestDashboardService_ChartData(t *testing.T) {
	svc := newDashboard()

	for _, chart := range []string{services.ChartConditions, services.ChartWorkload, services.ChartAdmissions} {
		data, err := svc.ChartData(context.Background(), chart)
		require.NoError(t, err, chart)
		assert.NotNil(t, data, chart)
	}

	_, err := svc.ChartData(context.Background(), "revenue")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
