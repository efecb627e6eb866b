package admin

import (
	"time"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

type adminSurveyResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	CreatorID     string    `json:"creatorId"`
	IsActive      bool      `json:"isActive"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"questionCount"`
	ResponseCount int       `json:"responseCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type adminSurveyListResponse struct {
	Items []adminSurveyResponse `json:"items"`
	Count int                   `json:"count"`
}

type upsertSurveyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorID   string `json:"creatorId"`
	Status      string `json:"status"`
	IsActive    bool   `json:"isActive"`
}

type statusActionRequest struct {
	Action string `json:"action"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type purgeOrphanedResponse struct {
	mutationResponse
	DeletedCount int `json:"deletedCount"`
}

type softDeleteResponse struct {
	mutationResponse
	SoftDeletedCount int `json:"softDeletedCount"`
}

type cleanupResponse struct {
	mutationResponse
	CleanedCount int `json:"cleanedCount"`
}

type cleanupReportResponse struct {
	DaysOldThreshold           int      `json:"daysOldThreshold"`
	OrphanDeleted              int      `json:"orphanDeleted"`
	InactiveCreatorSoftDeleted int      `json:"inactiveCreatorSoftDeleted"`
	EmptyCleaned               int      `json:"emptyCleaned"`
	StaleCleaned               int      `json:"staleCleaned"`
	FailedStages               []string `json:"failedStages,omitempty"`
	Success                    bool     `json:"success"`
	Message                    string   `json:"message"`
}

type adminUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type adminUserListResponse struct {
	Items []adminUserResponse `json:"items"`
	Count int                 `json:"count"`
}

type surveyStatisticsResponse struct {
	TotalSurveys          int     `json:"totalSurveys"`
	ActiveSurveys         int     `json:"activeSurveys"`
	DeletedSurveys        int     `json:"deletedSurveys"`
	TotalQuestions        int     `json:"totalQuestions"`
	TotalResponses        int     `json:"totalResponses"`
	AvgResponsesPerSurvey float64 `json:"avgResponsesPerSurvey"`
}

// adminSurveyDomainToResponse はドメインの Survey 集約を Admin UI 用レスポンスへ変換する。
func adminSurveyDomainToResponse(survey admindomain.Survey) adminSurveyResponse {
	return adminSurveyResponse{
		ID:            survey.ID,
		Title:         survey.Title,
		Description:   survey.Description,
		CreatorID:     survey.CreatorID,
		IsActive:      survey.IsActive,
		Status:        survey.Status.String(),
		QuestionCount: survey.QuestionCount,
		ResponseCount: survey.ResponseCount,
		CreatedAt:     survey.CreatedAt,
		UpdatedAt:     survey.UpdatedAt,
	}
}

func adminSurveyListToResponse(surveys []admindomain.Survey) adminSurveyListResponse {
	items := make([]adminSurveyResponse, 0, len(surveys))
	for _, survey := range surveys {
		items = append(items, adminSurveyDomainToResponse(survey))
	}
	return adminSurveyListResponse{Items: items, Count: len(items)}
}

func adminUserToResponse(user admindomain.User) adminUserResponse {
	return adminUserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func adminUserListToResponse(users []admindomain.User) adminUserListResponse {
	items := make([]adminUserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, adminUserToResponse(user))
	}
	return adminUserListResponse{Items: items, Count: len(items)}
}

func cleanupReportToResponse(report admindomain.CleanupReport) cleanupReportResponse {
	return cleanupReportResponse{
		DaysOldThreshold:           report.DaysOldThreshold,
		OrphanDeleted:              report.OrphanDeleted,
		InactiveCreatorSoftDeleted: report.InactiveCreatorSoftDeleted,
		EmptyCleaned:               report.EmptyCleaned,
		StaleCleaned:               report.StaleCleaned,
		FailedStages:               report.FailedStages,
		Success:                    report.Success,
		Message:                    report.Message,
	}
}
