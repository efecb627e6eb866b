package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

type fakeSurveyRepo struct {
	surveys map[string]*admindomain.Survey
	created []*admindomain.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: map[string]*admindomain.Survey{}}
}

func (f *fakeSurveyRepo) Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.Survey, error) {
	var out []admindomain.Survey
	for _, s := range f.surveys {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSurveyRepo) FindByID(ctx context.Context, id string) (*admindomain.Survey, error) {
	s, ok := f.surveys[id]
	if !ok {
		return nil, admindomain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSurveyRepo) Create(ctx context.Context, survey *admindomain.Survey) error {
	if survey.ID == "" {
		survey.ID = "generated-id"
	}
	f.surveys[survey.ID] = survey
	f.created = append(f.created, survey)
	return nil
}

func (f *fakeSurveyRepo) Update(ctx context.Context, survey *admindomain.Survey) error {
	if _, ok := f.surveys[survey.ID]; !ok {
		return admindomain.ErrNotFound
	}
	f.surveys[survey.ID] = survey
	return nil
}

func (f *fakeSurveyRepo) UpdateStatus(ctx context.Context, id string, status admindomain.SurveyStatus, isActive bool) error {
	s, ok := f.surveys[id]
	if !ok {
		return admindomain.ErrNotFound
	}
	s.Status = status
	s.IsActive = isActive
	return nil
}

func (f *fakeSurveyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.surveys[id]; !ok {
		return admindomain.ErrNotFound
	}
	delete(f.surveys, id)
	return nil
}

func (f *fakeSurveyRepo) Statistics(ctx context.Context) (*admindomain.SurveyStatistics, error) {
	return &admindomain.SurveyStatistics{TotalSurveys: len(f.surveys)}, nil
}

func TestSurveyService_CreateValidation(t *testing.T) {
	repo := newFakeSurveyRepo()
	svc := NewSurveyService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, UpsertSurveyCommand{Title: "  ", CreatorID: "u1"})
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))

	_, err = svc.Create(ctx, UpsertSurveyCommand{Title: "t", CreatorID: ""})
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))

	_, err = svc.Create(ctx, UpsertSurveyCommand{Title: "t", CreatorID: "u1", Status: "DELETED"})
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))

	_, err = svc.Create(ctx, UpsertSurveyCommand{Title: "t", CreatorID: "u1", Status: "bogus"})
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))

	require.Empty(t, repo.created)
}

func TestSurveyService_CreateDefaultsToDraft(t *testing.T) {
	repo := newFakeSurveyRepo()
	svc := NewSurveyService(repo)

	survey, err := svc.Create(context.Background(), UpsertSurveyCommand{
		Title:       "  社内アンケート  ",
		Description: " 説明 ",
		CreatorID:   "u1",
	})
	require.NoError(t, err)
	require.Equal(t, "社内アンケート", survey.Title)
	require.Equal(t, "説明", survey.Description)
	require.Equal(t, admindomain.StatusDraft, survey.Status)
	require.False(t, survey.CreatedAt.IsZero())
	require.Equal(t, survey.CreatedAt, survey.UpdatedAt)
}

func TestSurveyService_UpdateStatus(t *testing.T) {
	repo := newFakeSurveyRepo()
	repo.surveys["s1"] = &admindomain.Survey{ID: "s1", Title: "t", CreatorID: "u1", Status: admindomain.StatusActive, IsActive: true}
	svc := NewSurveyService(repo)

	updated, err := svc.UpdateStatus(context.Background(), "s1", admindomain.ActionClose)
	require.NoError(t, err)
	require.Equal(t, admindomain.StatusClosed, updated.Status)
	require.False(t, updated.IsActive)

	restored, err := svc.UpdateStatus(context.Background(), "s1", admindomain.ActionRestore)
	require.NoError(t, err)
	require.Equal(t, admindomain.StatusDraft, restored.Status)
	require.True(t, restored.IsActive)

	_, err = svc.UpdateStatus(context.Background(), "missing", admindomain.ActionClose)
	require.True(t, errors.Is(err, admindomain.ErrNotFound))
}

func TestSurveyService_UpdateMissing(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	_, err := svc.Update(context.Background(), "missing", UpsertSurveyCommand{Title: "t", CreatorID: "u1"})
	require.True(t, errors.Is(err, admindomain.ErrNotFound))
}
