package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/survey-club-services/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/survey-club-services/api/internal/public/application"
	"github.com/sngm3741/survey-club-services/api/internal/public/domain"
)

func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 20)
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)

		filter := publicapp.SurveyFilter{Keyword: strings.TrimSpace(query.Get("keyword"))}
		paging := publicapp.Paging{Page: page, Limit: limit, Sort: strings.TrimSpace(query.Get("sort"))}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		surveys, err := h.surveyQueries.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("public survey list fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケート一覧の取得に失敗しました")
			return
		}

		items := make([]surveyResponse, 0, len(surveys))
		for _, survey := range surveys {
			items = append(items, surveyDomainToResponse(survey))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveyListResponse{Items: items, Count: len(items)})
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

		detail, err := h.surveyQueries.Detail(ctx, idParam)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
				return
			}
			h.logger.Printf("public survey detail fetch failed id=%s err=%v", idParam, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveyDetailToResponse(*detail))
	}
}

func (h *Handler) responseSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDが指定されていません")
			return
		}

		var req submitResponseRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxSurveyRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		if len(req.Answers) > common.MaxQuestionCount {
			common.WriteError(h.logger, w, http.StatusBadRequest, "回答項目が多すぎます")
			return
		}
		for _, answer := range req.Answers {
			if utf8.RuneCountInString(answer) > common.MaxAnswerRunes {
				common.WriteError(h.logger, w, http.StatusBadRequest, "回答が長すぎます")
				return
			}
		}

		respondentID := strings.TrimSpace(req.RespondentID)
		if user, ok := common.UserFromContext(r.Context()); ok {
			respondentID = user.ID
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := h.surveyCommands.SubmitResponse(ctx, publicapp.SubmitResponseCommand{
			SurveyID:     idParam,
			RespondentID: respondentID,
			Answers:      req.Answers,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				common.WriteError(h.logger, w, http.StatusNotFound, "回答を受け付けられるアンケートが見つかりません")
			case errors.Is(err, domain.ErrInvalidArgument):
				common.WriteError(h.logger, w, http.StatusBadRequest, "回答内容が不正です")
			default:
				h.logger.Printf("public response submit failed id=%s err=%v", idParam, err)
				common.WriteError(h.logger, w, http.StatusInternalServerError, "回答の登録に失敗しました")
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, submitResponseResponse{
			ID:      id,
			Success: true,
			Message: "回答を受け付けました",
		})
	}
}
