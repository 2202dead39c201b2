package entities

import "time"

// DashboardStats are the headline patient counters.
type DashboardStats struct {
	Total      int `json:"total"`
	Critical   int `json:"critical"`
	Stable     int `json:"stable"`
	Recovering int `json:"recovering"`
}

// ConditionCount is one slice of the condition donut.
type ConditionCount struct {
	Condition PatientCondition `json:"condition"`
	Count     int              `json:"count"`
}

// DoctorWorkload is one bar of the workload chart.
type DoctorWorkload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyAdmissions is one point of the admissions line.
type DailyAdmissions struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}
