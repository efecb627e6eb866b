package domain

import "time"

// Survey represents an active, publicly answerable survey.
type Survey struct {
	ID            string
	Title         string
	Description   string
	Status        string
	QuestionCount int
	ResponseCount int
	CreatedAt     time.Time
}

// Question is the public view of a survey question.
type Question struct {
	ID    string
	Text  string
	Order int
}

// SurveyDetail augments Survey with its ordered questions.
type SurveyDetail struct {
	Survey
	Questions []Question
}

// ResponseSubmission is a visitor's answer set for one survey.
type ResponseSubmission struct {
	SurveyID     string
	RespondentID string
	Answers      map[string]string
	SubmittedAt  time.Time
}
