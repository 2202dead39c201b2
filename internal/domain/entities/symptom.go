package entities

// SymptomAssessment is the language model's answer split for display.
type SymptomAssessment struct {
	Disclaimer string `json:"disclaimer"`
	Content    string `json:"content"`
	Raw        string `json:"raw"`
}
