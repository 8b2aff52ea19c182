package types

// Survey is a post-visit questionnaire.
type Survey struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []SurveyQuestion `json:"questions"`
}

// SurveyQuestion is one prompt on a survey.
type SurveyQuestion struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Kind   string `json:"kind"`
}

// SurveyList wraps the survey listing response.
type SurveyList struct {
	Surveys []Survey `json:"surveys"`
}

// SurveyResponse carries a client's answers for one survey.
type SurveyResponse struct {
	SurveyID      string            `json:"surveyId"`
	AppointmentID string            `json:"appointmentId,omitempty"`
	Answers       map[string]string `json:"answers"`
	Score         int               `json:"score,omitempty"`
}
