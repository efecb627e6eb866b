package application

import (
	"context"
	"sort"

	"github.com/sngm3741/survey-club-services/api/internal/public/domain"
)

// surveyQueryService implements SurveyQueryService.
type surveyQueryService struct {
	repo SurveyRepository
}

// NewSurveyQueryService creates a new SurveyQueryService.
func NewSurveyQueryService(repo SurveyRepository) SurveyQueryService {
	return &surveyQueryService{repo: repo}
}

func (s *surveyQueryService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error) {
	surveys, err := s.repo.FindActive(ctx, filter, paging)
	if err != nil {
		return nil, err
	}
	sortSurveys(surveys, paging.Sort)
	return surveys, nil
}

func (s *surveyQueryService) Detail(ctx context.Context, id string) (*domain.SurveyDetail, error) {
	return s.repo.FindByID(ctx, id)
}

func sortSurveys(surveys []domain.Survey, sortKey string) {
	switch sortKey {
	case "responses":
		sort.SliceStable(surveys, func(i, j int) bool {
			if surveys[i].ResponseCount == surveys[j].ResponseCount {
				return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
			}
			return surveys[i].ResponseCount > surveys[j].ResponseCount
		})
	default:
		sort.SliceStable(surveys, func(i, j int) bool {
			return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
		})
	}
}
