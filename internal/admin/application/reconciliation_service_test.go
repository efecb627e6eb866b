package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

// fakeReconciliationRepo reproduces the store-level detector and mutation
// semantics in memory: detectors skip DELETED surveys, hard delete cascades
// questions and responses, soft delete keeps the row with DELETED status.
type fakeReconciliationRepo struct {
	mu        sync.Mutex
	surveys   map[string]*admindomain.Survey
	users     map[string]bool // id -> isActive; absent id means no such user
	questions map[string]int  // surveyID -> question count
	responses map[string]int  // surveyID -> response count

	findErr  map[CleanupCategory]error
	findHook func()
}

func newFakeRepo() *fakeReconciliationRepo {
	return &fakeReconciliationRepo{
		surveys:   map[string]*admindomain.Survey{},
		users:     map[string]bool{},
		questions: map[string]int{},
		responses: map[string]int{},
		findErr:   map[CleanupCategory]error{},
	}
}

func (f *fakeReconciliationRepo) addUser(id string, active bool) {
	f.users[id] = active
}

func (f *fakeReconciliationRepo) addSurvey(id, creatorID string, createdAt time.Time, questions, responses int) {
	f.surveys[id] = &admindomain.Survey{
		ID:        id,
		Title:     "survey " + id,
		CreatorID: creatorID,
		IsActive:  true,
		Status:    admindomain.StatusActive,
		CreatedAt: createdAt,
	}
	f.questions[id] = questions
	f.responses[id] = responses
}

func (f *fakeReconciliationRepo) collect(category CleanupCategory, match func(*admindomain.Survey) bool) ([]admindomain.Survey, error) {
	if f.findHook != nil {
		f.findHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.findErr[category]; err != nil {
		return nil, err
	}
	var out []admindomain.Survey
	for _, s := range f.surveys {
		if s.Status == admindomain.StatusDeleted {
			continue
		}
		if match(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReconciliationRepo) FindOrphaned(ctx context.Context) ([]admindomain.Survey, error) {
	return f.collect(CategoryOrphaned, func(s *admindomain.Survey) bool {
		_, exists := f.users[s.CreatorID]
		return !exists
	})
}

func (f *fakeReconciliationRepo) FindInactiveCreator(ctx context.Context) ([]admindomain.Survey, error) {
	return f.collect(CategoryInactiveCreator, func(s *admindomain.Survey) bool {
		active, exists := f.users[s.CreatorID]
		return exists && !active
	})
}

func (f *fakeReconciliationRepo) FindWithoutQuestions(ctx context.Context) ([]admindomain.Survey, error) {
	return f.collect(CategoryWithoutQuestions, func(s *admindomain.Survey) bool {
		return f.questions[s.ID] == 0
	})
}

func (f *fakeReconciliationRepo) FindStale(ctx context.Context, olderThan time.Time) ([]admindomain.Survey, error) {
	return f.collect(CategoryStale, func(s *admindomain.Survey) bool {
		return !s.CreatedAt.After(olderThan) && f.responses[s.ID] == 0
	})
}

func (f *fakeReconciliationRepo) HardDeleteSurveys(ctx context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := f.surveys[id]; !ok {
			continue
		}
		delete(f.surveys, id)
		delete(f.questions, id)
		delete(f.responses, id)
		deleted++
	}
	return deleted, nil
}

func (f *fakeReconciliationRepo) SoftDeleteSurveys(ctx context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var modified int64
	for _, id := range ids {
		s, ok := f.surveys[id]
		if !ok || s.Status == admindomain.StatusDeleted {
			continue
		}
		s.IsActive = false
		s.Status = admindomain.StatusDeleted
		modified++
	}
	return modified, nil
}

func newTestService(repo ReconciliationRepository, now time.Time) *reconciliationService {
	svc := NewReconciliationService(repo, log.New(discardWriter{}, "", 0), time.Second).(*reconciliationService)
	svc.now = func() time.Time { return now }
	return svc
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// seedCorruptedStore plants known amounts of every inconsistency category
// plus healthy surveys that must survive untouched.
func seedCorruptedStore(repo *fakeReconciliationRepo, now time.Time) {
	repo.addUser("alive", true)
	repo.addUser("gone", false)

	// healthy: active creator, questions and responses present
	repo.addSurvey("healthy-1", "alive", now.Add(-24*time.Hour), 3, 5)
	repo.addSurvey("healthy-2", "alive", now.Add(-48*time.Hour), 2, 1)

	// orphaned: creator id never inserted
	repo.addSurvey("orphan-1", "ghost-1", now.Add(-24*time.Hour), 2, 3)
	repo.addSurvey("orphan-2", "ghost-2", now.Add(-24*time.Hour), 1, 0)

	// inactive creator
	repo.addSurvey("inactive-1", "gone", now.Add(-24*time.Hour), 2, 2)

	// without questions, and old enough to also match the stale detector
	repo.addSurvey("empty-1", "alive", now.Add(-40*24*time.Hour), 0, 0)

	// stale: older than 30 days, zero responses
	repo.addSurvey("stale-1", "alive", now.Add(-40*24*time.Hour), 2, 0)
	repo.addSurvey("stale-2", "alive", now.Add(-31*24*time.Hour), 1, 0)
}

func TestRunComprehensiveCleanup_CorruptedStore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedCorruptedStore(repo, now)
	svc := newTestService(repo, now)

	report, err := svc.RunComprehensiveCleanup(context.Background(), 30)
	require.NoError(t, err)
	require.True(t, report.Success)
	require.Empty(t, report.FailedStages)
	require.Equal(t, 30, report.DaysOldThreshold)
	require.Equal(t, 2, report.OrphanDeleted)
	require.Equal(t, 1, report.InactiveCreatorSoftDeleted)
	// empty-1 also matches the stale detector, but the without-questions
	// stage soft-deletes it first and the stale stage re-queries fresh.
	require.Equal(t, 1, report.EmptyCleaned)
	require.Equal(t, 2, report.StaleCleaned)
	require.Equal(t, 6, report.TotalMutated())

	// orphans are gone entirely, including their children
	require.NotContains(t, repo.surveys, "orphan-1")
	require.NotContains(t, repo.questions, "orphan-1")
	require.NotContains(t, repo.responses, "orphan-1")

	// soft-deleted rows remain as evidence
	require.Contains(t, repo.surveys, "inactive-1")
	require.Equal(t, admindomain.StatusDeleted, repo.surveys["inactive-1"].Status)
	require.False(t, repo.surveys["inactive-1"].IsActive)

	// healthy surveys are untouched
	require.Equal(t, admindomain.StatusActive, repo.surveys["healthy-1"].Status)
	require.Equal(t, admindomain.StatusActive, repo.surveys["healthy-2"].Status)
}

func TestRunComprehensiveCleanup_SecondRunIsNoop(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedCorruptedStore(repo, now)
	svc := newTestService(repo, now)

	_, err := svc.RunComprehensiveCleanup(context.Background(), 30)
	require.NoError(t, err)

	report, err := svc.RunComprehensiveCleanup(context.Background(), 30)
	require.NoError(t, err)
	require.True(t, report.Success)
	require.Equal(t, 0, report.TotalMutated())
}

func TestRunComprehensiveCleanup_PartialFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedCorruptedStore(repo, now)
	repo.findErr[CategoryStale] = fmt.Errorf("cursor timeout")
	svc := newTestService(repo, now)

	report, err := svc.RunComprehensiveCleanup(context.Background(), 30)
	require.NoError(t, err)
	require.False(t, report.Success)
	require.Equal(t, []string{string(CategoryStale)}, report.FailedStages)
	require.Equal(t, 0, report.StaleCleaned)
	require.Equal(t, 2, report.OrphanDeleted)
	require.Equal(t, 1, report.InactiveCreatorSoftDeleted)
	require.Contains(t, report.Message, "一部失敗")

	// the failed stage left its candidates in place for the next run
	require.Equal(t, admindomain.StatusActive, repo.surveys["stale-1"].Status)
}

func TestRunComprehensiveCleanup_NegativeDaysOld(t *testing.T) {
	repo := newFakeRepo()
	repo.findHook = func() { t.Fatal("repository must not be queried for a negative threshold") }
	svc := newTestService(repo, time.Now())

	_, err := svc.RunComprehensiveCleanup(context.Background(), -1)
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))
}

func TestRunComprehensiveCleanup_SingleFlight(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedCorruptedStore(repo, now)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	repo.findHook = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	svc := newTestService(repo, now)

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunComprehensiveCleanup(context.Background(), 30)
		done <- err
	}()

	<-entered
	_, err := svc.RunComprehensiveCleanup(context.Background(), 30)
	require.True(t, errors.Is(err, admindomain.ErrCleanupInProgress))

	_, err = svc.PurgeOrphaned(context.Background())
	require.True(t, errors.Is(err, admindomain.ErrCleanupInProgress))

	close(release)
	require.NoError(t, <-done)
}

func TestListStale_BoundaryIsInclusive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	repo.addUser("alive", true)
	// exactly 30 days old: stale
	repo.addSurvey("on-boundary", "alive", now.Add(-30*24*time.Hour), 1, 0)
	// one second newer than the cutoff: not stale
	repo.addSurvey("just-inside", "alive", now.Add(-30*24*time.Hour).Add(time.Second), 1, 0)
	// older but answered: not stale
	repo.addSurvey("answered", "alive", now.Add(-60*24*time.Hour), 1, 4)
	svc := newTestService(repo, now)

	stale, err := svc.ListStale(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, "on-boundary", stale[0].ID)
}

func TestListStale_NegativeDaysOld(t *testing.T) {
	svc := newTestService(newFakeRepo(), time.Now())

	_, err := svc.ListStale(context.Background(), -7)
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))

	_, err = svc.CleanupStale(context.Background(), -7)
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))
}

func TestPurgeOrphaned_CascadesChildren(t *testing.T) {
	now := time.Now().UTC()
	repo := newFakeRepo()
	repo.addUser("alive", true)
	repo.addSurvey("orphan-1", "ghost", now, 3, 2)
	repo.addSurvey("healthy-1", "alive", now, 1, 1)
	svc := newTestService(repo, now)

	count, err := svc.PurgeOrphaned(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NotContains(t, repo.surveys, "orphan-1")
	require.NotContains(t, repo.questions, "orphan-1")
	require.NotContains(t, repo.responses, "orphan-1")
	require.Contains(t, repo.surveys, "healthy-1")
}

func TestSoftDeleteInactiveCreator_KeepsRows(t *testing.T) {
	now := time.Now().UTC()
	repo := newFakeRepo()
	repo.addUser("gone", false)
	repo.addSurvey("inactive-1", "gone", now, 2, 2)
	svc := newTestService(repo, now)

	count, err := svc.SoftDeleteInactiveCreator(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Contains(t, repo.surveys, "inactive-1")
	require.Equal(t, admindomain.StatusDeleted, repo.surveys["inactive-1"].Status)
	require.Equal(t, 2, repo.questions["inactive-1"])

	// detectors skip DELETED rows, so the same survey is not reported again
	found, err := svc.ListInactiveCreator(context.Background())
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestCleanupPolicy_UnknownCategory(t *testing.T) {
	policy := NewCleanupPolicy(newFakeRepo())

	_, err := policy.Apply(context.Background(), CleanupCategory("bogus"), []string{"s1"})
	require.True(t, errors.Is(err, admindomain.ErrInvalidArgument))
}

func TestCleanupPolicy_EmptyCandidates(t *testing.T) {
	repo := newFakeRepo()
	repo.findHook = func() { t.Fatal("no repository call expected") }
	policy := NewCleanupPolicy(repo)

	count, err := policy.Apply(context.Background(), CategoryOrphaned, nil)
	require.NoError(t, err)
	require.Zero(t, count)
}
