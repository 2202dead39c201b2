package entities

// DoctorIDPrefix prefixes every doctor identifier, e.g. D007.
const DoctorIDPrefix = "D"

// Doctor is an entry in the staff directory.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// NewDoctor carries the fields an admin supplies when adding a doctor.
type NewDoctor struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}
