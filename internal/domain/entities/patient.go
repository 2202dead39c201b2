package entities

// PatientIDPrefix prefixes every patient identifier, e.g. P014.
const PatientIDPrefix = "P"

// AdmissionDateLayout is the calendar-date format used for admissions.
const AdmissionDateLayout = "2006-01-02"

// PatientCondition is the clinical status shown in the directory.
type PatientCondition string

const (
	ConditionStable           PatientCondition = "Stable"
	ConditionCritical         PatientCondition = "Critical"
	ConditionRecovering       PatientCondition = "Recovering"
	ConditionUnderObservation PatientCondition = "Under Observation"
)

// PatientConditions lists every condition in display order.
var PatientConditions = []PatientCondition{
	ConditionStable,
	ConditionCritical,
	ConditionRecovering,
	ConditionUnderObservation,
}

// Valid reports whether c is a known condition.
func (c PatientCondition) Valid() bool {
	for _, known := range PatientConditions {
		if c == known {
			return true
		}
	}
	return false
}

// Patient is an admitted patient. Doctor holds the attending doctor's name,
// not an id, and is not checked against the doctor directory.
type Patient struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Age           int              `json:"age"`
	Room          string           `json:"room"`
	Condition     PatientCondition `json:"condition"`
	Doctor        string           `json:"doctor"`
	AdmissionDate string           `json:"admissionDate"`
}

// NewPatient carries the fields an admin supplies when admitting a patient.
type NewPatient struct {
	Name          string           `json:"name"`
	Age           int              `json:"age"`
	Room          string           `json:"room"`
	Condition     PatientCondition `json:"condition"`
	Doctor        string           `json:"doctor"`
	AdmissionDate string           `json:"admissionDate"`
}
