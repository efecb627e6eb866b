package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

type surveyService struct {
	repo SurveyRepository
}

func NewSurveyService(repo SurveyRepository) SurveyService {
	return &surveyService{repo: repo}
}

func (s *surveyService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.Survey, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *surveyService) Detail(ctx context.Context, id string) (*admindomain.Survey, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *surveyService) Create(ctx context.Context, cmd UpsertSurveyCommand) (*admindomain.Survey, error) {
	survey, err := buildSurveyFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id string, cmd UpsertSurveyCommand) (*admindomain.Survey, error) {
	survey, err := buildSurveyFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	survey.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// UpdateStatus applies one of the closed transition actions. The action is
// assumed to be parsed already; an out-of-set value still fails closed here.
func (s *surveyService) UpdateStatus(ctx context.Context, id string, action admindomain.StatusAction) (*admindomain.Survey, error) {
	status, isActive, err := action.Apply()
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status, isActive); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *surveyService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *surveyService) Statistics(ctx context.Context) (*admindomain.SurveyStatistics, error) {
	return s.repo.Statistics(ctx)
}

func buildSurveyFromCommand(id string, cmd UpsertSurveyCommand) (*admindomain.Survey, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", admindomain.ErrInvalidArgument)
	}
	creatorID := strings.TrimSpace(cmd.CreatorID)
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creatorId is required", admindomain.ErrInvalidArgument)
	}

	status := admindomain.StatusDraft
	if strings.TrimSpace(cmd.Status) != "" {
		parsed, err := admindomain.ParseSurveyStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	if status == admindomain.StatusDeleted {
		return nil, fmt.Errorf("%w: surveys cannot be created as DELETED", admindomain.ErrInvalidArgument)
	}

	return &admindomain.Survey{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		CreatorID:   creatorID,
		Status:      status,
		IsActive:    cmd.IsActive,
	}, nil
}
