package public

import (
	"time"

	"github.com/sngm3741/survey-club-services/api/internal/public/domain"
)

type surveyResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	QuestionCount int       `json:"questionCount"`
	ResponseCount int       `json:"responseCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type surveyListResponse struct {
	Items []surveyResponse `json:"items"`
	Count int              `json:"count"`
}

type questionResponse struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type surveyDetailResponse struct {
	surveyResponse
	Questions []questionResponse `json:"questions"`
}

type submitResponseRequest struct {
	RespondentID string            `json:"respondentId,omitempty"`
	Answers      map[string]string `json:"answers"`
}

type submitResponseResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func surveyDomainToResponse(survey domain.Survey) surveyResponse {
	return surveyResponse{
		ID:            survey.ID,
		Title:         survey.Title,
		Description:   survey.Description,
		QuestionCount: survey.QuestionCount,
		ResponseCount: survey.ResponseCount,
		CreatedAt:     survey.CreatedAt,
	}
}

func surveyDetailToResponse(detail domain.SurveyDetail) surveyDetailResponse {
	questions := make([]questionResponse, 0, len(detail.Questions))
	for _, question := range detail.Questions {
		questions = append(questions, questionResponse{
			ID:    question.ID,
			Text:  question.Text,
			Order: question.Order,
		})
	}
	return surveyDetailResponse{
		surveyResponse: surveyDomainToResponse(detail.Survey),
		Questions:      questions,
	}
}
