package directory

import (
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// SeedDoctors returns the initial staff directory.
func SeedDoctors() []entities.Doctor {
	return []entities.Doctor{
		{ID: "D001", Name: "Dr. Emily Carter", Specialization: "Cardiology"},
		{ID: "D002", Name: "Dr. Ben Adams", Specialization: "Neurology"},
		{ID: "D003", Name: "Dr. Olivia Chen", Specialization: "Pediatrics"},
		{ID: "D004", Name: "Dr. Marcus Rodriguez", Specialization: "Orthopedics"},
		{ID: "D005", Name: "Dr. Sofia Garcia", Specialization: "Oncology"},
		{ID: "D006", Name: "Dr. Leo Maxwell", Specialization: "Dermatology"},
		{ID: "D007", Name: "Dr. Isabella Wright", Specialization: "Gastroenterology"},
		{ID: "D008", Name: "Dr. Jacob Lee", Specialization: "Urology"},
		{ID: "D009", Name: "Dr. Ava King", Specialization: "Endocrinology"},
		{ID: "D010", Name: "Dr. Noah Scott", Specialization: "Pulmonology"},
		{ID: "D011", Name: "Dr. Mia Green", Specialization: "Nephrology"},
		{ID: "D012", Name: "Dr. Liam Baker", Specialization: "Infectious Disease"},
		{ID: "D013", Name: "Dr. Harper Hill", Specialization: "Rheumatology"},
		{ID: "D014", Name: "Dr. Ethan Nelson", Specialization: "Psychiatry"},
		{ID: "D015", Name: "Dr. Chloe Campbell", Specialization: "General Surgery"},
	}
}

type seedPatient struct {
	id, name  string
	age       int
	room      string
	condition entities.PatientCondition
	doctor    string
	daysAgo   int
}

var seedPatients = []seedPatient{
	{"P001", "John Smith", 45, "301A", entities.ConditionStable, "Dr. Emily Carter", 2},
	{"P002", "Jane Doe", 32, "302B", entities.ConditionCritical, "Dr. Ben Adams", 0},
	{"P003", "Peter Jones", 68, "410A", entities.ConditionRecovering, "Dr. Emily Carter", 5},
	{"P004", "Mary Johnson", 75, "412C", entities.ConditionStable, "Dr. Olivia Chen", 1},
	{"P005", "David Williams", 51, "305A", entities.ConditionUnderObservation, "Dr. Ben Adams", 1},
	{"P006", "Linda Brown", 28, "501B", entities.ConditionStable, "Dr. Olivia Chen", 3},
	{"P007", "James Wilson", 63, "502D", entities.ConditionRecovering, "Dr. Emily Carter", 6},
	{"P008", "Patricia Miller", 58, "404E", entities.ConditionCritical, "Dr. Sofia Garcia", 0},
	{"P009", "Robert Davis", 49, "308A", entities.ConditionStable, "Dr. Marcus Rodriguez", 4},
	{"P010", "Jennifer Garcia", 35, "511C", entities.ConditionUnderObservation, "Dr. Leo Maxwell", 2},
	{"P011", "Michael Rodriguez", 71, "415B", entities.ConditionRecovering, "Dr. Isabella Wright", 7},
	{"P012", "Elizabeth Martinez", 42, "309F", entities.ConditionStable, "Dr. Jacob Lee", 3},
	{"P013", "William Hernandez", 80, "420A", entities.ConditionCritical, "Dr. Ava King", 1},
	{"P014", "Susan Lopez", 22, "515G", entities.ConditionStable, "Dr. Noah Scott", 0},
	{"P015", "Joseph Gonzalez", 55, "312D", entities.ConditionUnderObservation, "Dr. Mia Green", 4},
	{"P016", "Jessica Perez", 66, "422E", entities.ConditionRecovering, "Dr. Liam Baker", 6},
	{"P017", "Thomas Sanchez", 39, "518H", entities.ConditionStable, "Dr. Harper Hill", 2},
	{"P018", "Karen Ramirez", 60, "425F", entities.ConditionStable, "Dr. Ethan Nelson", 5},
	{"P019", "Daniel Clark", 48, "315C", entities.ConditionCritical, "Dr. Chloe Campbell", 1},
	{"P020", "Nancy Lewis", 53, "520I", entities.ConditionUnderObservation, "Dr. Emily Carter", 0},
}

// SeedPatients returns the initial admissions with dates relative to today.
func SeedPatients(today time.Time) []entities.Patient {
	out := make([]entities.Patient, len(seedPatients))
	for i, p := range seedPatients {
		out[i] = entities.Patient{
			ID:            p.id,
			Name:          p.name,
			Age:           p.age,
			Room:          p.room,
			Condition:     p.condition,
			Doctor:        p.doctor,
			AdmissionDate: today.AddDate(0, 0, -p.daysAgo).Format(entities.AdmissionDateLayout),
		}
	}
	return out
}

// SeedAppointments returns today's schedule board.
func SeedAppointments() []entities.Appointment {
	return []entities.Appointment{
		{Time: "08:30 AM", PatientName: "John Smith", DoctorName: "Dr. Emily Carter", Type: entities.AppointmentTypeFollowUp},
		{Time: "09:00 AM", PatientName: "Jane Doe", DoctorName: "Dr. Ben Adams", Type: entities.AppointmentTypeConsultation},
		{Time: "09:15 AM", PatientName: "Daniel Clark", DoctorName: "Dr. Chloe Campbell", Type: entities.AppointmentTypeSurgery},
		{Time: "09:45 AM", PatientName: "Patricia Miller", DoctorName: "Dr. Sofia Garcia", Type: entities.AppointmentTypeConsultation},
		{Time: "10:00 AM", PatientName: "Mary Johnson", DoctorName: "Dr. Olivia Chen", Type: entities.AppointmentTypeCheckUp},
		{Time: "10:30 AM", PatientName: "David Williams", DoctorName: "Dr. Ben Adams", Type: entities.AppointmentTypeFollowUp},
		{Time: "11:00 AM", PatientName: "Robert Davis", DoctorName: "Dr. Marcus Rodriguez", Type: entities.AppointmentTypeTherapy},
		{Time: "11:30 AM", PatientName: "Linda Brown", DoctorName: "Dr. Olivia Chen", Type: entities.AppointmentTypeCheckUp},
		{Time: "01:00 PM", PatientName: "William Hernandez", DoctorName: "Dr. Ava King", Type: entities.AppointmentTypeConsultation},
		{Time: "01:45 PM", PatientName: "Jennifer Garcia", DoctorName: "Dr. Leo Maxwell", Type: entities.AppointmentTypeFollowUp},
		{Time: "02:15 PM", PatientName: "Nancy Lewis", DoctorName: "Dr. Emily Carter", Type: entities.AppointmentTypeCheckUp},
		{Time: "03:00 PM", PatientName: "James Wilson", DoctorName: "Dr. Emily Carter", Type: entities.AppointmentTypeTherapy},
		{Time: "03:30 PM", PatientName: "Susan Lopez", DoctorName: "Dr. Noah Scott", Type: entities.AppointmentTypeConsultation},
	}
}
