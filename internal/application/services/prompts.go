package services

// DisclaimerText is the paragraph every symptom answer must open with.
const DisclaimerText = "DISCLAIMER: This is not a medical diagnosis. The information provided is for informational purposes only and should not be considered a substitute for professional medical advice, diagnosis, or treatment. Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition."

const symptomSystemInstruction = `You are a helpful medical information assistant.
Based on the symptoms provided, you should list potential related conditions or areas to discuss with a doctor.
You must not provide a diagnosis. Your primary goal is to inform and suggest topics for a professional consultation.
Your response MUST start with this disclaimer as its own paragraph, followed by a blank line: "` + DisclaimerText + `"
After the disclaimer, provide the information in a clear, easy-to-read format. Use bullet points where appropriate.`

const schedulingSystemInstruction = `You are an intelligent hospital appointment scheduling assistant.
Your task is to parse the user's request and extract key information for scheduling an appointment.
Extract the doctor's name, patient's name, requested type of appointment, and any time preferences (like a day, date, or time of day).
If a specific date is mentioned (e.g., "August 15, 2024", "2024-08-15", "today"), extract it and format it as YYYY-MM-DD into the 'preferredDate' field. Today is %s.
If a piece of information is not present, omit the key.
Respond with JSON only.`

// schedulingSchema is the JSON schema of entities.SchedulingRequest.
var schedulingSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"doctorName": map[string]interface{}{
			"type":        "string",
			"description": "The full name of the doctor requested.",
		},
		"patientName": map[string]interface{}{
			"type":        "string",
			"description": "The full name of the patient.",
		},
		"appointmentType": map[string]interface{}{
			"type":        "string",
			"description": `The type of appointment, e.g., "check-up", "consultation", "follow-up".`,
		},
		"timePreference": map[string]interface{}{
			"type":        "string",
			"description": `Any preference for the date or time, e.g., "next Tuesday afternoon", "tomorrow morning".`,
		},
		"preferredDate": map[string]interface{}{
			"type":        "string",
			"description": "The specific date requested for the appointment, in YYYY-MM-DD format.",
		},
	},
	"additionalProperties": false,
}
