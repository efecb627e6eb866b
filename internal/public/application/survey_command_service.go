package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/survey-club-services/api/internal/public/domain"
)

// surveyCommandService implements SurveyCommandService.
type surveyCommandService struct {
	repo SurveyRepository
}

// NewSurveyCommandService creates a new SurveyCommandService.
func NewSurveyCommandService(repo SurveyRepository) SurveyCommandService {
	return &surveyCommandService{repo: repo}
}

// SubmitResponse validates and stores a visitor's answers. Only ACTIVE
// surveys accept responses; the repository rejects the rest as NotFound.
func (s *surveyCommandService) SubmitResponse(ctx context.Context, cmd SubmitResponseCommand) (string, error) {
	if strings.TrimSpace(cmd.SurveyID) == "" {
		return "", fmt.Errorf("%w: surveyId is required", domain.ErrInvalidArgument)
	}
	if len(cmd.Answers) == 0 {
		return "", fmt.Errorf("%w: answers must not be empty", domain.ErrInvalidArgument)
	}

	submission := &domain.ResponseSubmission{
		SurveyID:     strings.TrimSpace(cmd.SurveyID),
		RespondentID: strings.TrimSpace(cmd.RespondentID),
		Answers:      cmd.Answers,
		SubmittedAt:  time.Now().UTC(),
	}
	return s.repo.InsertResponse(ctx, submission)
}
