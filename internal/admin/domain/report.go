package domain

import (
	"fmt"
	"strings"
)

// CleanupCounts holds the per-category mutation counts of one run.
type CleanupCounts struct {
	OrphanDeleted              int
	InactiveCreatorSoftDeleted int
	EmptyCleaned               int
	StaleCleaned               int
}

// CleanupReport is the immutable result of one comprehensive cleanup run.
// It is built once per run and never persisted.
type CleanupReport struct {
	DaysOldThreshold           int
	OrphanDeleted              int
	InactiveCreatorSoftDeleted int
	EmptyCleaned               int
	StaleCleaned               int
	FailedStages               []string
	Success                    bool
	Message                    string
}

// cleanupStageTotal is the number of categories a comprehensive run covers.
const cleanupStageTotal = 4

// NewCleanupReport composes the aggregate result. Success is true only when
// every stage completed; the message distinguishes full, partial and total
// failure.
func NewCleanupReport(daysOld int, counts CleanupCounts, failedStages []string) CleanupReport {
	report := CleanupReport{
		DaysOldThreshold:           daysOld,
		OrphanDeleted:              counts.OrphanDeleted,
		InactiveCreatorSoftDeleted: counts.InactiveCreatorSoftDeleted,
		EmptyCleaned:               counts.EmptyCleaned,
		StaleCleaned:               counts.StaleCleaned,
		FailedStages:               append([]string(nil), failedStages...),
	}

	switch {
	case len(failedStages) == 0:
		report.Success = true
		report.Message = "クリーンアップが完了しました"
	case len(failedStages) >= cleanupStageTotal:
		report.Message = "クリーンアップに失敗しました: " + strings.Join(failedStages, ", ")
	default:
		report.Message = fmt.Sprintf("クリーンアップは一部失敗しました (失敗ステージ: %s)", strings.Join(failedStages, ", "))
	}
	return report
}

// TotalMutated returns the number of surveys touched across all categories.
func (r CleanupReport) TotalMutated() int {
	return r.OrphanDeleted + r.InactiveCreatorSoftDeleted + r.EmptyCleaned + r.StaleCleaned
}

// SurveyStatistics is the typed aggregate behind the admin statistics view.
type SurveyStatistics struct {
	TotalSurveys          int
	ActiveSurveys         int
	DeletedSurveys        int
	TotalQuestions        int
	TotalResponses        int
	AvgResponsesPerSurvey float64
}
