package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCleanupReport_AllStagesSucceeded(t *testing.T) {
	counts := CleanupCounts{
		OrphanDeleted:              2,
		InactiveCreatorSoftDeleted: 1,
		EmptyCleaned:               3,
		StaleCleaned:               4,
	}
	report := NewCleanupReport(30, counts, nil)

	require.True(t, report.Success)
	require.Equal(t, "クリーンアップが完了しました", report.Message)
	require.Equal(t, 30, report.DaysOldThreshold)
	require.Empty(t, report.FailedStages)
	require.Equal(t, 10, report.TotalMutated())
}

func TestNewCleanupReport_PartialFailure(t *testing.T) {
	report := NewCleanupReport(7, CleanupCounts{OrphanDeleted: 5}, []string{"stale-no-responses"})

	require.False(t, report.Success)
	require.Contains(t, report.Message, "一部失敗")
	require.Contains(t, report.Message, "stale-no-responses")
	require.Equal(t, []string{"stale-no-responses"}, report.FailedStages)
}

func TestNewCleanupReport_TotalFailure(t *testing.T) {
	failed := []string{"orphaned", "inactive-creator", "without-questions", "stale-no-responses"}
	report := NewCleanupReport(30, CleanupCounts{}, failed)

	require.False(t, report.Success)
	require.Contains(t, report.Message, "クリーンアップに失敗しました")
	require.Equal(t, 0, report.TotalMutated())
}

func TestNewCleanupReport_CopiesFailedStages(t *testing.T) {
	failed := []string{"orphaned"}
	report := NewCleanupReport(30, CleanupCounts{}, failed)
	failed[0] = "mutated"

	require.Equal(t, []string{"orphaned"}, report.FailedStages)
}
