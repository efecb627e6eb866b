package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
	"github.com/sngm3741/survey-club-services/api/internal/interfaces/http/common"
)

// reconcileListTimeout bounds the read-only detector endpoints.
const reconcileListTimeout = 15 * time.Second

// reconcileMutationTimeout bounds mutation endpoints. The comprehensive run
// holds up to four stage transactions, so it gets more headroom than reads.
const reconcileMutationTimeout = 3 * time.Minute

func (h *Handler) listOrphanedHandler() http.HandlerFunc {
	return h.detectorListHandler("orphaned", func(ctx context.Context) ([]admindomain.Survey, error) {
		return h.reconciliationService.ListOrphaned(ctx)
	})
}

func (h *Handler) listInactiveCreatorHandler() http.HandlerFunc {
	return h.detectorListHandler("inactive-creator", func(ctx context.Context) ([]admindomain.Survey, error) {
		return h.reconciliationService.ListInactiveCreator(ctx)
	})
}

func (h *Handler) listWithoutQuestionsHandler() http.HandlerFunc {
	return h.detectorListHandler("without-questions", func(ctx context.Context) ([]admindomain.Survey, error) {
		return h.reconciliationService.ListWithoutQuestions(ctx)
	})
}

func (h *Handler) listStaleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysOld, err := common.ParseDaysOld(r.URL.Query().Get("daysOld"), h.defaultStaleDays)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "daysOld の指定が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reconcileListTimeout)
		defer cancel()

		surveys, err := h.reconciliationService.ListStale(ctx, daysOld)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation stale list failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyListToResponse(surveys))
	}
}

// detectorListHandler は読み取り専用の検出エンドポイント共通処理。
func (h *Handler) detectorListHandler(name string, list func(context.Context) ([]admindomain.Survey, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), reconcileListTimeout)
		defer cancel()

		surveys, err := list(ctx)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation "+name+" list failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminSurveyListToResponse(surveys))
	}
}

// purgeOrphanedHandler は孤児アンケートのハード削除を実行する。
// 成功後の再実行は 0 件を返すだけでエラーにはならない。
func (h *Handler) purgeOrphanedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), reconcileMutationTimeout)
		defer cancel()

		count, err := h.reconciliationService.PurgeOrphaned(ctx)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation orphan purge failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, purgeOrphanedResponse{
			mutationResponse: mutationResponse{
				Success: true,
				Message: fmt.Sprintf("孤児アンケートを %d 件削除しました", count),
			},
			DeletedCount: count,
		})
	}
}

func (h *Handler) softDeleteInactiveCreatorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), reconcileMutationTimeout)
		defer cancel()

		count, err := h.reconciliationService.SoftDeleteInactiveCreator(ctx)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation inactive-creator soft delete failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, softDeleteResponse{
			mutationResponse: mutationResponse{
				Success: true,
				Message: fmt.Sprintf("作成者が無効なアンケートを %d 件ソフト削除しました", count),
			},
			SoftDeletedCount: count,
		})
	}
}

func (h *Handler) cleanupEmptyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), reconcileMutationTimeout)
		defer cancel()

		count, err := h.reconciliationService.CleanupEmpty(ctx)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation empty cleanup failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, cleanupResponse{
			mutationResponse: mutationResponse{
				Success: true,
				Message: fmt.Sprintf("設問のないアンケートを %d 件整理しました", count),
			},
			CleanedCount: count,
		})
	}
}

func (h *Handler) cleanupStaleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysOld, err := common.ParseDaysOld(r.URL.Query().Get("daysOld"), h.defaultStaleDays)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "daysOld の指定が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reconcileMutationTimeout)
		defer cancel()

		count, err := h.reconciliationService.CleanupStale(ctx, daysOld)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation stale cleanup failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, cleanupResponse{
			mutationResponse: mutationResponse{
				Success: true,
				Message: fmt.Sprintf("%d 日以上回答のないアンケートを %d 件整理しました", daysOld, count),
			},
			CleanedCount: count,
		})
	}
}

// comprehensiveCleanupHandler は 4 カテゴリすべてを固定順で実行し、
// 集約レポートを返す。ステージ単位の失敗はレポートに記録されるだけで、
// エンドポイント自体は 200 を返す。
func (h *Handler) comprehensiveCleanupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysOld, err := common.ParseDaysOld(r.URL.Query().Get("daysOldForCleanup"), h.defaultStaleDays)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "daysOldForCleanup の指定が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reconcileMutationTimeout)
		defer cancel()

		report, err := h.reconciliationService.RunComprehensiveCleanup(ctx, daysOld)
		if err != nil {
			h.writeDomainError(w, err, "reconciliation comprehensive cleanup failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, cleanupReportToResponse(*report))
	}
}
