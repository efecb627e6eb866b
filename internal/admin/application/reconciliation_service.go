package application

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

// CleanupCategory identifies one reconciliation category.
type CleanupCategory string

const (
	CategoryOrphaned         CleanupCategory = "orphaned"
	CategoryInactiveCreator  CleanupCategory = "inactiveCreator"
	CategoryWithoutQuestions CleanupCategory = "withoutQuestions"
	CategoryStale            CleanupCategory = "staleNoResponses"
)

// CleanupPolicy is the sole place that maps a category to its row-level
// mutation. True orphans carry no audit value and are purged with their
// children; every other category keeps the row as evidence and is only
// soft-deleted (isActive=false, status=DELETED).
type CleanupPolicy struct {
	repo ReconciliationRepository
}

func NewCleanupPolicy(repo ReconciliationRepository) CleanupPolicy {
	return CleanupPolicy{repo: repo}
}

// Apply executes the category-appropriate mutation over the candidate ids
// and returns the number of surveys mutated. An unrecognized category is
// rejected before any write.
func (p CleanupPolicy) Apply(ctx context.Context, category CleanupCategory, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	switch category {
	case CategoryOrphaned:
		count, err := p.repo.HardDeleteSurveys(ctx, ids)
		return int(count), err
	case CategoryInactiveCreator, CategoryWithoutQuestions, CategoryStale:
		count, err := p.repo.SoftDeleteSurveys(ctx, ids)
		return int(count), err
	default:
		return 0, fmt.Errorf("%w: unknown cleanup category %q", admindomain.ErrInvalidArgument, string(category))
	}
}

type reconciliationService struct {
	repo         ReconciliationRepository
	policy       CleanupPolicy
	logger       *log.Logger
	stageTimeout time.Duration
	now          func() time.Time

	// mu is the process-wide single-flight lock. It guards every mutation
	// path so hard delete and soft delete of the same survey can never
	// interleave across callers.
	mu sync.Mutex
}

// NewReconciliationService builds the orchestrator. stageTimeout bounds
// each category's read-then-mutate unit of work.
func NewReconciliationService(repo ReconciliationRepository, logger *log.Logger, stageTimeout time.Duration) ReconciliationService {
	if stageTimeout <= 0 {
		stageTimeout = 30 * time.Second
	}
	return &reconciliationService{
		repo:         repo,
		policy:       NewCleanupPolicy(repo),
		logger:       logger,
		stageTimeout: stageTimeout,
		now:          time.Now,
	}
}

func (s *reconciliationService) ListOrphaned(ctx context.Context) ([]admindomain.Survey, error) {
	return s.repo.FindOrphaned(ctx)
}

func (s *reconciliationService) ListInactiveCreator(ctx context.Context) ([]admindomain.Survey, error) {
	return s.repo.FindInactiveCreator(ctx)
}

func (s *reconciliationService) ListWithoutQuestions(ctx context.Context) ([]admindomain.Survey, error) {
	return s.repo.FindWithoutQuestions(ctx)
}

func (s *reconciliationService) ListStale(ctx context.Context, daysOld int) ([]admindomain.Survey, error) {
	cutoff, err := s.staleCutoff(daysOld)
	if err != nil {
		return nil, err
	}
	return s.repo.FindStale(ctx, cutoff)
}

func (s *reconciliationService) PurgeOrphaned(ctx context.Context) (int, error) {
	return s.runSingleCategory(ctx, CategoryOrphaned, s.repo.FindOrphaned)
}

func (s *reconciliationService) SoftDeleteInactiveCreator(ctx context.Context) (int, error) {
	return s.runSingleCategory(ctx, CategoryInactiveCreator, s.repo.FindInactiveCreator)
}

func (s *reconciliationService) CleanupEmpty(ctx context.Context) (int, error) {
	return s.runSingleCategory(ctx, CategoryWithoutQuestions, s.repo.FindWithoutQuestions)
}

func (s *reconciliationService) CleanupStale(ctx context.Context, daysOld int) (int, error) {
	cutoff, err := s.staleCutoff(daysOld)
	if err != nil {
		return 0, err
	}
	return s.runSingleCategory(ctx, CategoryStale, func(ctx context.Context) ([]admindomain.Survey, error) {
		return s.repo.FindStale(ctx, cutoff)
	})
}

// RunComprehensiveCleanup executes all four categories in a fixed order.
// Each stage re-queries the store fresh and runs under its own timeout; a
// stage failure is recorded with a zero count and never stops later stages.
func (s *reconciliationService) RunComprehensiveCleanup(ctx context.Context, daysOld int) (*admindomain.CleanupReport, error) {
	cutoff, err := s.staleCutoff(daysOld)
	if err != nil {
		return nil, err
	}

	if !s.mu.TryLock() {
		return nil, admindomain.ErrCleanupInProgress
	}
	defer s.mu.Unlock()

	stages := []struct {
		category CleanupCategory
		detect   func(context.Context) ([]admindomain.Survey, error)
		record   func(*admindomain.CleanupCounts, int)
	}{
		{CategoryOrphaned, s.repo.FindOrphaned, func(c *admindomain.CleanupCounts, n int) { c.OrphanDeleted = n }},
		{CategoryInactiveCreator, s.repo.FindInactiveCreator, func(c *admindomain.CleanupCounts, n int) { c.InactiveCreatorSoftDeleted = n }},
		{CategoryWithoutQuestions, s.repo.FindWithoutQuestions, func(c *admindomain.CleanupCounts, n int) { c.EmptyCleaned = n }},
		{CategoryStale, func(ctx context.Context) ([]admindomain.Survey, error) {
			return s.repo.FindStale(ctx, cutoff)
		}, func(c *admindomain.CleanupCounts, n int) { c.StaleCleaned = n }},
	}

	var counts admindomain.CleanupCounts
	var failed []string
	for _, stage := range stages {
		count, err := s.runStage(ctx, stage.category, stage.detect)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("クリーンアップステージ %s が失敗しました: %v", stage.category, err)
			}
			failed = append(failed, string(stage.category))
			continue
		}
		stage.record(&counts, count)
	}

	report := admindomain.NewCleanupReport(daysOld, counts, failed)
	return &report, nil
}

// runSingleCategory is the mutation path shared by the four standalone
// operations. Errors propagate to the caller unwrapped, unlike the
// comprehensive run which isolates them per stage.
func (s *reconciliationService) runSingleCategory(ctx context.Context, category CleanupCategory, detect func(context.Context) ([]admindomain.Survey, error)) (int, error) {
	if !s.mu.TryLock() {
		return 0, admindomain.ErrCleanupInProgress
	}
	defer s.mu.Unlock()

	return s.runStage(ctx, category, detect)
}

// runStage performs one category's read-then-mutate sequence under the
// stage timeout. The detector output is re-queried here, never cached from
// before the run started.
func (s *reconciliationService) runStage(ctx context.Context, category CleanupCategory, detect func(context.Context) ([]admindomain.Survey, error)) (int, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	candidates, err := detect(stageCtx)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(candidates))
	for _, survey := range candidates {
		ids = append(ids, survey.ID)
	}
	return s.policy.Apply(stageCtx, category, ids)
}

func (s *reconciliationService) staleCutoff(daysOld int) (time.Time, error) {
	if daysOld < 0 {
		return time.Time{}, fmt.Errorf("%w: daysOld must not be negative, got %d", admindomain.ErrInvalidArgument, daysOld)
	}
	return s.now().UTC().Add(-time.Duration(daysOld) * 24 * time.Hour), nil
}
