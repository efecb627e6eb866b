package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/survey-club-services/api/internal/admin/application"
	"github.com/sngm3741/survey-club-services/api/internal/interfaces/http/common"
)

// userListHandler はユーザー一覧を返す。作成者が無効なアンケートを調査する
// 際の突き合わせ用で、ユーザーの変更操作は提供しない。
func (h *Handler) userListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 0)
		page, _ := common.ParsePositiveInt(query.Get("page"), 0)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		users, err := h.userService.List(ctx, adminapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.writeDomainError(w, err, "admin user list fetch failed")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminUserListToResponse(users))
	}
}

func (h *Handler) userDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "ユーザーIDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, err := h.userService.Detail(ctx, idParam)
		if err != nil {
			h.writeDomainError(w, err, "admin user detail fetch failed id="+idParam)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminUserToResponse(*user))
	}
}
