package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-club-services/api/internal/public/domain"
)

type fakePublicRepo struct {
	surveys    []domain.Survey
	detail     *domain.SurveyDetail
	inserted   []*domain.ResponseSubmission
	insertedID string
	err        error
}

func (f *fakePublicRepo) FindActive(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error) {
	return f.surveys, f.err
}

func (f *fakePublicRepo) FindByID(ctx context.Context, id string) (*domain.SurveyDetail, error) {
	if f.detail == nil {
		return nil, domain.ErrNotFound
	}
	return f.detail, f.err
}

func (f *fakePublicRepo) InsertResponse(ctx context.Context, submission *domain.ResponseSubmission) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.inserted = append(f.inserted, submission)
	return f.insertedID, nil
}

func TestSurveyQueryService_ListSortsByCreatedAtDesc(t *testing.T) {
	now := time.Now().UTC()
	repo := &fakePublicRepo{surveys: []domain.Survey{
		{ID: "old", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "mid", CreatedAt: now.Add(-24 * time.Hour)},
	}}
	svc := NewSurveyQueryService(repo)

	surveys, err := svc.List(context.Background(), SurveyFilter{}, Paging{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"new", "mid", "old"}, surveyIDs(surveys))
}

func TestSurveyQueryService_ListSortsByResponses(t *testing.T) {
	now := time.Now().UTC()
	repo := &fakePublicRepo{surveys: []domain.Survey{
		{ID: "quiet", ResponseCount: 1, CreatedAt: now},
		{ID: "busy", ResponseCount: 9, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "tied-new", ResponseCount: 9, CreatedAt: now},
	}}
	svc := NewSurveyQueryService(repo)

	surveys, err := svc.List(context.Background(), SurveyFilter{}, Paging{Page: 1, Limit: 10, Sort: "responses"})
	require.NoError(t, err)
	require.Equal(t, []string{"tied-new", "busy", "quiet"}, surveyIDs(surveys))
}

func TestSurveyCommandService_SubmitResponse(t *testing.T) {
	repo := &fakePublicRepo{insertedID: "resp-1"}
	svc := NewSurveyCommandService(repo)

	id, err := svc.SubmitResponse(context.Background(), SubmitResponseCommand{
		SurveyID:     " survey-1 ",
		RespondentID: "user-1",
		Answers:      map[string]string{"q1": "はい"},
	})
	require.NoError(t, err)
	require.Equal(t, "resp-1", id)
	require.Len(t, repo.inserted, 1)
	require.Equal(t, "survey-1", repo.inserted[0].SurveyID)
	require.False(t, repo.inserted[0].SubmittedAt.IsZero())
}

func TestSurveyCommandService_SubmitResponseValidation(t *testing.T) {
	repo := &fakePublicRepo{}
	svc := NewSurveyCommandService(repo)
	ctx := context.Background()

	_, err := svc.SubmitResponse(ctx, SubmitResponseCommand{SurveyID: "", Answers: map[string]string{"q1": "a"}})
	require.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.SubmitResponse(ctx, SubmitResponseCommand{SurveyID: "s1"})
	require.True(t, errors.Is(err, domain.ErrInvalidArgument))

	require.Empty(t, repo.inserted)
}

func surveyIDs(surveys []domain.Survey) []string {
	ids := make([]string, 0, len(surveys))
	for _, s := range surveys {
		ids = append(ids, s.ID)
	}
	return ids
}
