package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/survey-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
	"github.com/sngm3741/survey-club-services/api/internal/interfaces/http/common"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger                *log.Logger
	surveyService         adminapp.SurveyService
	userService           adminapp.UserService
	reconciliationService adminapp.ReconciliationService
	defaultStaleDays      int
}

// Config provides dependencies for Handler.
type Config struct {
	Logger                *log.Logger
	SurveyService         adminapp.SurveyService
	UserService           adminapp.UserService
	ReconciliationService adminapp.ReconciliationService
	DefaultStaleDays      int
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	staleDays := cfg.DefaultStaleDays
	if staleDays <= 0 {
		staleDays = 30
	}
	return &Handler{
		logger:                cfg.Logger,
		surveyService:         cfg.SurveyService,
		userService:           cfg.UserService,
		reconciliationService: cfg.ReconciliationService,
		defaultStaleDays:      staleDays,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyListHandler())
	r.Post("/surveys", h.surveyCreateHandler())
	r.Get("/surveys/statistics", h.surveyStatisticsHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.Patch("/surveys/{id}", h.surveyUpdateHandler())
	r.Delete("/surveys/{id}", h.surveyDeleteHandler())
	r.Patch("/surveys/{id}/status", h.surveyStatusHandler())

	r.Get("/users", h.userListHandler())
	r.Get("/users/{id}", h.userDetailHandler())

	r.Route("/reconciliation", func(r chi.Router) {
		r.Get("/orphaned", h.listOrphanedHandler())
		r.Get("/inactive-creator", h.listInactiveCreatorHandler())
		r.Get("/without-questions", h.listWithoutQuestionsHandler())
		r.Get("/old-without-responses", h.listStaleHandler())
		r.Delete("/orphaned", h.purgeOrphanedHandler())
		r.Put("/inactive-creator/soft-delete", h.softDeleteInactiveCreatorHandler())
		r.Put("/without-questions/cleanup", h.cleanupEmptyHandler())
		r.Put("/old-without-responses/cleanup", h.cleanupStaleHandler())
		r.Post("/comprehensive-cleanup", h.comprehensiveCleanupHandler())
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses without
// leaking internal detail to callers.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, logContext string) {
	switch {
	case errors.Is(err, admindomain.ErrInvalidArgument):
		common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストが不正です: "+err.Error())
	case errors.Is(err, admindomain.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
	case errors.Is(err, admindomain.ErrCleanupInProgress):
		common.WriteError(h.logger, w, http.StatusConflict, "整合性クリーンアップが既に実行中です")
	default:
		h.logger.Printf("%s: %v", logContext, err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, "処理に失敗しました")
	}
}
