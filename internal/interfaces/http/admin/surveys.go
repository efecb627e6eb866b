package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/survey-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
	"github.com/sngm3741/survey-club-services/api/internal/interfaces/http/common"
)

func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 0)
		page, _ := common.ParsePositiveInt(query.Get("page"), 0)

		filter := adminapp.SurveyFilter{
			CreatorID:     strings.TrimSpace(query.Get("creatorId")),
			Status:        strings.TrimSpace(query.Get("status")),
			Keyword:       strings.TrimSpace(query.Get("keyword")),
			IncludeHidden: strings.EqualFold(query.Get("includeHidden"), "true"),
		}
		paging := adminapp.Paging{Page: page, Limit: limit}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		surveys, err := h.surveyService.List(ctx, filter, paging)
		if err != nil {
			h.writeDomainError(w, err, "admin survey list fetch failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyListToResponse(surveys))
	}
}

func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveyService.Detail(ctx, idParam)
		if err != nil {
			h.writeDomainError(w, err, "admin survey detail fetch failed id="+idParam)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyDomainToResponse(*survey))
	}
}

func (h *Handler) surveyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertSurveyRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxSurveyRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveyService.Create(ctx, upsertCommandFromRequest(req))
		if err != nil {
			h.writeDomainError(w, err, "admin survey create failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, adminSurveyDomainToResponse(*survey))
	}
}

func (h *Handler) surveyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません")
			return
		}

		var req upsertSurveyRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxSurveyRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveyService.Update(ctx, idParam, upsertCommandFromRequest(req))
		if err != nil {
			h.writeDomainError(w, err, "admin survey update failed id="+idParam)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyDomainToResponse(*survey))
	}
}

func (h *Handler) surveyDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.surveyService.Delete(ctx, idParam); err != nil {
			h.writeDomainError(w, err, "admin survey delete failed id="+idParam)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, mutationResponse{
			Success: true,
			Message: "アンケートを削除しました",
		})
	}
}

// surveyStatusHandler は閉じたアクション集合を経由した場合のみステータスを遷移させる。
func (h *Handler) surveyStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません")
			return
		}

		var req statusActionRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxSurveyRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		action, err := admindomain.ParseStatusAction(req.Action)
		if err != nil {
			h.writeDomainError(w, err, "admin survey status parse failed")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveyService.UpdateStatus(ctx, idParam, action)
		if err != nil {
			h.writeDomainError(w, err, "admin survey status update failed id="+idParam)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyDomainToResponse(*survey))
	}
}

func (h *Handler) surveyStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		stats, err := h.surveyService.Statistics(ctx)
		if err != nil {
			h.writeDomainError(w, err, "admin survey statistics failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveyStatisticsResponse{
			TotalSurveys:          stats.TotalSurveys,
			ActiveSurveys:         stats.ActiveSurveys,
			DeletedSurveys:        stats.DeletedSurveys,
			TotalQuestions:        stats.TotalQuestions,
			TotalResponses:        stats.TotalResponses,
			AvgResponsesPerSurvey: stats.AvgResponsesPerSurvey,
		})
	}
}

func upsertCommandFromRequest(req upsertSurveyRequest) adminapp.UpsertSurveyCommand {
	return adminapp.UpsertSurveyCommand{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   req.CreatorID,
		Status:      req.Status,
		IsActive:    req.IsActive,
	}
}
