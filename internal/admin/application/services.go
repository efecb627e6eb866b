package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

// SurveyRepository exposes admin CRUD over surveys. Delete removes the
// survey row and its questions/responses in one transaction.
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.Survey, error)
	FindByID(ctx context.Context, id string) (*admindomain.Survey, error)
	Create(ctx context.Context, survey *admindomain.Survey) error
	Update(ctx context.Context, survey *admindomain.Survey) error
	UpdateStatus(ctx context.Context, id string, status admindomain.SurveyStatus, isActive bool) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*admindomain.SurveyStatistics, error)
}

// UserRepository gives the admin view over users.
type UserRepository interface {
	Find(ctx context.Context, paging Paging) ([]admindomain.User, error)
	FindByID(ctx context.Context, id string) (*admindomain.User, error)
}

// ReconciliationRepository bundles the four detector queries and the two
// mutations the cleanup policy dispatches to. Detectors are read-only and
// never return surveys already transitioned to DELETED. HardDeleteSurveys
// cascades questions and responses inside a single transaction.
type ReconciliationRepository interface {
	FindOrphaned(ctx context.Context) ([]admindomain.Survey, error)
	FindInactiveCreator(ctx context.Context) ([]admindomain.Survey, error)
	FindWithoutQuestions(ctx context.Context) ([]admindomain.Survey, error)
	FindStale(ctx context.Context, olderThan time.Time) ([]admindomain.Survey, error)
	HardDeleteSurveys(ctx context.Context, ids []string) (int64, error)
	SoftDeleteSurveys(ctx context.Context, ids []string) (int64, error)
}

// SurveyFilter expresses admin search criteria.
type SurveyFilter struct {
	CreatorID     string
	Status        string
	Keyword       string
	IncludeHidden bool
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// SurveyService describes admin survey use-cases.
type SurveyService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.Survey, error)
	Detail(ctx context.Context, id string) (*admindomain.Survey, error)
	Create(ctx context.Context, cmd UpsertSurveyCommand) (*admindomain.Survey, error)
	Update(ctx context.Context, id string, cmd UpsertSurveyCommand) (*admindomain.Survey, error)
	UpdateStatus(ctx context.Context, id string, action admindomain.StatusAction) (*admindomain.Survey, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*admindomain.SurveyStatistics, error)
}

// UserService describes the read-only admin view over users. Surveys whose
// creator shows up inactive here are candidates for the inactive-creator
// detector.
type UserService interface {
	List(ctx context.Context, paging Paging) ([]admindomain.User, error)
	Detail(ctx context.Context, id string) (*admindomain.User, error)
}

// ReconciliationService runs the consistency detectors and applies the
// category-appropriate deletion policy. Mutations are single-flight: a
// second caller receives domain.ErrCleanupInProgress instead of blocking.
type ReconciliationService interface {
	ListOrphaned(ctx context.Context) ([]admindomain.Survey, error)
	ListInactiveCreator(ctx context.Context) ([]admindomain.Survey, error)
	ListWithoutQuestions(ctx context.Context) ([]admindomain.Survey, error)
	ListStale(ctx context.Context, daysOld int) ([]admindomain.Survey, error)
	PurgeOrphaned(ctx context.Context) (int, error)
	SoftDeleteInactiveCreator(ctx context.Context) (int, error)
	CleanupEmpty(ctx context.Context) (int, error)
	CleanupStale(ctx context.Context, daysOld int) (int, error)
	RunComprehensiveCleanup(ctx context.Context, daysOld int) (*admindomain.CleanupReport, error)
}

// UpsertSurveyCommand contains inputs for survey create/update.
type UpsertSurveyCommand struct {
	Title       string
	Description string
	CreatorID   string
	Status      string
	IsActive    bool
}
