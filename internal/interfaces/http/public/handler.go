package public

import (
	"log"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/sngm3741/survey-club-services/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger         *log.Logger
	surveyQueries  publicapp.SurveyQueryService
	surveyCommands publicapp.SurveyCommandService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *log.Logger
	SurveyQueries  publicapp.SurveyQueryService
	SurveyCommands publicapp.SurveyCommandService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:         cfg.Logger,
		surveyQueries:  cfg.SurveyQueries,
		surveyCommands: cfg.SurveyCommands,
	}
}

// Register mounts all public routes onto the router. Response submission is
// open to anonymous visitors, so no auth middleware wraps these routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyListHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.Post("/surveys/{id}/responses", h.responseSubmitHandler())
}
