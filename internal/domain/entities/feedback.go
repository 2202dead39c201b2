package entities

import "time"

// FeedbackCategory groups feedback by topic.
type FeedbackCategory string

const (
	FeedbackCategoryGeneral          FeedbackCategory = "General"
	FeedbackCategoryDoctorExperience FeedbackCategory = "Doctor Experience"
	FeedbackCategoryFacility         FeedbackCategory = "Facility"
	FeedbackCategoryAITools          FeedbackCategory = "AI Tools"
)

// Valid reports whether c is a known category.
func (c FeedbackCategory) Valid() bool {
	switch c {
	case FeedbackCategoryGeneral, FeedbackCategoryDoctorExperience, FeedbackCategoryFacility, FeedbackCategoryAITools:
		return true
	}
	return false
}

// FeedbackStatus is the state of the feedback form.
type FeedbackStatus string

const (
	FeedbackStatusIdle       FeedbackStatus = "idle"
	FeedbackStatusSubmitting FeedbackStatus = "submitting"
	FeedbackStatusSubmitted  FeedbackStatus = "submitted"
)

// Feedback captures a star rating and comment from staff.
type Feedback struct {
	ID        string           `json:"id" db:"id"`
	Rating    int              `json:"rating" db:"rating"`
	Comment   string           `json:"comment" db:"comment"`
	Category  FeedbackCategory `json:"category" db:"category"`
	UserAgent string           `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
