package domain

import "time"

// Survey represents the admin-managed survey aggregate. CreatorID is a
// reference into the users collection that the store does not enforce.
type Survey struct {
	ID            string
	Title         string
	Description   string
	CreatorID     string
	IsActive      bool
	Status        SurveyStatus
	QuestionCount int
	ResponseCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Question belongs exclusively to one Survey.
type Question struct {
	ID       string
	SurveyID string
	Text     string
	Order    int
}

// Response is a submitted answer set for a Survey.
type Response struct {
	ID           string
	SurveyID     string
	RespondentID string
	Answers      map[string]string
	SubmittedAt  time.Time
}

// User is owned by external user-management flows; reconciliation only
// reads it. A user may be soft-deactivated or its row removed entirely.
type User struct {
	ID        string
	Name      string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}
