package application

import (
	"context"

	"github.com/sngm3741/survey-club-services/api/internal/public/domain"
)

// SurveyRepository handles public survey reads and response writes.
// SurveyRepository は Public コンテキストのアンケート読み取りと回答登録を提供するポート。
type SurveyRepository interface {
	FindActive(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error)
	FindByID(ctx context.Context, id string) (*domain.SurveyDetail, error)
	InsertResponse(ctx context.Context, submission *domain.ResponseSubmission) (string, error)
}

// SurveyFilter expresses public search criteria.
type SurveyFilter struct {
	Keyword string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// SurveyQueryService describes public read use-cases.
// SurveyQueryService はアンケート閲覧ユースケースを提供するリーダーモデル。
type SurveyQueryService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error)
	Detail(ctx context.Context, id string) (*domain.SurveyDetail, error)
}

// SurveyCommandService describes public write use-cases.
type SurveyCommandService interface {
	SubmitResponse(ctx context.Context, cmd SubmitResponseCommand) (string, error)
}

// SubmitResponseCommand contains inputs for a response submission.
type SubmitResponseCommand struct {
	SurveyID     string
	RespondentID string
	Answers      map[string]string
}
