package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// AdmissionsWindowDays is the span of the admissions chart, ending today.
const AdmissionsWindowDays = 7

// DashboardService derives read-only figures from the directory.
type DashboardService struct {
	directory *DirectoryService
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardService(directory *DirectoryService, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{directory: directory, loc: loc, now: time.Now}
}

// WithClock replaces the clock used for the admissions window.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats counts patients by headline condition.
func (s *DashboardService) Stats(ctx context.Context) (entities.DashboardStats, error) {
	patients, err := s.directory.ListPatients(ctx, "")
	if err != nil {
		return entities.DashboardStats{}, err
	}

	stats := entities.DashboardStats{Total: len(patients)}
	for _, p := range patients {
		switch p.Condition {
		case entities.ConditionCritical:
			stats.Critical++
		case entities.ConditionStable:
			stats.Stable++
		case entities.ConditionRecovering:
			stats.Recovering++
		}
	}
	return stats, nil
}

// ConditionDistribution counts patients for every condition, zeros included.
func (s *DashboardService) ConditionDistribution(ctx context.Context) ([]entities.ConditionCount, error) {
	patients, err := s.directory.ListPatients(ctx, "")
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.PatientCondition]int, len(entities.PatientConditions))
	for _, p := range patients {
		counts[p.Condition]++
	}
	out := make([]entities.ConditionCount, 0, len(entities.PatientConditions))
	for _, c := range entities.PatientConditions {
		out = append(out, entities.ConditionCount{Condition: c, Count: counts[c]})
	}
	return out, nil
}

// DoctorWorkload counts board appointments per doctor in first-seen order,
// with the "Dr. " title dropped from names.
func (s *DashboardService) DoctorWorkload(ctx context.Context) ([]entities.DoctorWorkload, error) {
	appointments, err := s.directory.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []entities.DoctorWorkload
	for _, a := range appointments {
		name := strings.TrimPrefix(a.DoctorName, "Dr. ")
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, entities.DoctorWorkload{Name: name})
		}
		out[i].Count++
	}
	return out, nil
}

// Admissions counts admissions per day for the window ending today. Days
// without admissions are present with a zero count.
func (s *DashboardService) Admissions(ctx context.Context) ([]entities.DailyAdmissions, error) {
	patients, err := s.directory.ListPatients(ctx, "")
	if err != nil {
		return nil, err
	}

	today := midnight(s.now(), s.loc)
	out := make([]entities.DailyAdmissions, AdmissionsWindowDays)
	index := make(map[string]int, AdmissionsWindowDays)
	for i := 0; i < AdmissionsWindowDays; i++ {
		day := today.AddDate(0, 0, i-(AdmissionsWindowDays-1))
		out[i] = entities.DailyAdmissions{Date: day}
		index[day.Format(entities.AdmissionDateLayout)] = i
	}
	for _, p := range patients {
		if i, ok := index[p.AdmissionDate]; ok {
			out[i].Count++
		}
	}
	return out, nil
}

// Chart names served by the dashboard
const (
	ChartConditions = "conditions"
	ChartWorkload   = "workload"
	ChartAdmissions = "admissions"
)

// ChartData returns the series behind a named chart.
func (s *DashboardService) ChartData(ctx context.Context, chart string) (interface{}, error) {
	switch chart {
	case ChartConditions:
		return s.ConditionDistribution(ctx)
	case ChartWorkload:
		return s.DoctorWorkload(ctx)
	case ChartAdmissions:
		return s.Admissions(ctx)
	default:
		return nil, apperrors.NewNotFoundError("unknown chart " + chart)
	}
}
