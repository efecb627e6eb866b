package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

// stubReconciliationService records the arguments it was called with and
// replays canned results.
type stubReconciliationService struct {
	surveys []admindomain.Survey
	report  *admindomain.CleanupReport
	count   int
	err     error

	listStaleDays     []int
	cleanupDays       []int
	comprehensiveDays []int
	purgeCalls        int
}

func (s *stubReconciliationService) ListOrphaned(ctx context.Context) ([]admindomain.Survey, error) {
	return s.surveys, s.err
}

func (s *stubReconciliationService) ListInactiveCreator(ctx context.Context) ([]admindomain.Survey, error) {
	return s.surveys, s.err
}

func (s *stubReconciliationService) ListWithoutQuestions(ctx context.Context) ([]admindomain.Survey, error) {
	return s.surveys, s.err
}

func (s *stubReconciliationService) ListStale(ctx context.Context, daysOld int) ([]admindomain.Survey, error) {
	s.listStaleDays = append(s.listStaleDays, daysOld)
	return s.surveys, s.err
}

func (s *stubReconciliationService) PurgeOrphaned(ctx context.Context) (int, error) {
	s.purgeCalls++
	return s.count, s.err
}

func (s *stubReconciliationService) SoftDeleteInactiveCreator(ctx context.Context) (int, error) {
	return s.count, s.err
}

func (s *stubReconciliationService) CleanupEmpty(ctx context.Context) (int, error) {
	return s.count, s.err
}

func (s *stubReconciliationService) CleanupStale(ctx context.Context, daysOld int) (int, error) {
	s.cleanupDays = append(s.cleanupDays, daysOld)
	return s.count, s.err
}

func (s *stubReconciliationService) RunComprehensiveCleanup(ctx context.Context, daysOld int) (*admindomain.CleanupReport, error) {
	s.comprehensiveDays = append(s.comprehensiveDays, daysOld)
	return s.report, s.err
}

func newTestRouter(stub *stubReconciliationService) chi.Router {
	handler := NewHandler(Config{
		Logger:                log.New(io.Discard, "", 0),
		ReconciliationService: stub,
		DefaultStaleDays:      30,
	})
	r := chi.NewRouter()
	handler.Register(r)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(into))
}

func TestListOrphaned_ReturnsItemsAndCount(t *testing.T) {
	stub := &stubReconciliationService{surveys: []admindomain.Survey{
		{ID: "s1", Title: "壊れたアンケート", CreatorID: "ghost", Status: admindomain.StatusActive, IsActive: true, CreatedAt: time.Now()},
	}}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodGet, "/reconciliation/orphaned")
	require.Equal(t, http.StatusOK, rec.Code)

	var body adminSurveyListResponse
	decodeBody(t, rec, &body)
	require.Equal(t, 1, body.Count)
	require.Len(t, body.Items, 1)
	require.Equal(t, "s1", body.Items[0].ID)
	require.Equal(t, "ghost", body.Items[0].CreatorID)
}

func TestListOrphaned_EmptyListIsNotNull(t *testing.T) {
	r := newTestRouter(&stubReconciliationService{})

	rec := doRequest(t, r, http.MethodGet, "/reconciliation/orphaned")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestListStale_DaysOldParsing(t *testing.T) {
	stub := &stubReconciliationService{}
	r := newTestRouter(stub)

	// absent parameter falls back to the configured default
	rec := doRequest(t, r, http.MethodGet, "/reconciliation/old-without-responses")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/reconciliation/old-without-responses?daysOld=7")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int{30, 7}, stub.listStaleDays)
}

func TestListStale_RejectsBadDaysOld(t *testing.T) {
	stub := &stubReconciliationService{}
	r := newTestRouter(stub)

	for _, q := range []string{"daysOld=-1", "daysOld=abc", "daysOld=1.5"} {
		rec := doRequest(t, r, http.MethodGet, "/reconciliation/old-without-responses?"+q)
		require.Equal(t, http.StatusBadRequest, rec.Code, q)

		var body map[string]string
		decodeBody(t, rec, &body)
		require.Contains(t, body["error"], "daysOld")
	}
	// the service is never reached with an invalid threshold
	require.Empty(t, stub.listStaleDays)
}

func TestPurgeOrphaned_ReturnsDeletedCount(t *testing.T) {
	stub := &stubReconciliationService{count: 4}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodDelete, "/reconciliation/orphaned")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, stub.purgeCalls)

	var body purgeOrphanedResponse
	decodeBody(t, rec, &body)
	require.True(t, body.Success)
	require.Equal(t, 4, body.DeletedCount)
	require.Contains(t, body.Message, "4 件")
}

func TestCleanupStale_PassesThreshold(t *testing.T) {
	stub := &stubReconciliationService{count: 2}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodPut, "/reconciliation/old-without-responses/cleanup?daysOld=90")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int{90}, stub.cleanupDays)

	var body cleanupResponse
	decodeBody(t, rec, &body)
	require.True(t, body.Success)
	require.Equal(t, 2, body.CleanedCount)
}

func TestComprehensiveCleanup_ReportShape(t *testing.T) {
	report := admindomain.NewCleanupReport(30, admindomain.CleanupCounts{
		OrphanDeleted:              2,
		InactiveCreatorSoftDeleted: 1,
		EmptyCleaned:               0,
		StaleCleaned:               3,
	}, nil)
	stub := &stubReconciliationService{report: &report}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodPost, "/reconciliation/comprehensive-cleanup")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int{30}, stub.comprehensiveDays)

	var body cleanupReportResponse
	decodeBody(t, rec, &body)
	require.True(t, body.Success)
	require.Equal(t, 30, body.DaysOldThreshold)
	require.Equal(t, 2, body.OrphanDeleted)
	require.Equal(t, 1, body.InactiveCreatorSoftDeleted)
	require.Equal(t, 3, body.StaleCleaned)
	require.Empty(t, body.FailedStages)
}

func TestComprehensiveCleanup_CustomThreshold(t *testing.T) {
	report := admindomain.NewCleanupReport(60, admindomain.CleanupCounts{}, nil)
	stub := &stubReconciliationService{report: &report}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodPost, "/reconciliation/comprehensive-cleanup?daysOldForCleanup=60")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int{60}, stub.comprehensiveDays)
}

func TestComprehensiveCleanup_RejectsNegativeThreshold(t *testing.T) {
	stub := &stubReconciliationService{}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodPost, "/reconciliation/comprehensive-cleanup?daysOldForCleanup=-5")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, stub.comprehensiveDays)
}

func TestComprehensiveCleanup_ConflictWhileRunning(t *testing.T) {
	stub := &stubReconciliationService{err: admindomain.ErrCleanupInProgress}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodPost, "/reconciliation/comprehensive-cleanup")
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	require.Contains(t, body["error"], "実行中")
}

func TestListOrphaned_InternalErrorIsOpaque(t *testing.T) {
	stub := &stubReconciliationService{err: io.ErrUnexpectedEOF}
	r := newTestRouter(stub)

	rec := doRequest(t, r, http.MethodGet, "/reconciliation/orphaned")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "unexpected EOF")
}
