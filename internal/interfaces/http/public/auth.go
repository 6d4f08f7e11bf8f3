package public

import (
	"net/http"

	"github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
)

type authVerifyResponse struct {
	Status  string                   `json:"status"`
	User    common.AuthenticatedUser `json:"user"`
	IsAdmin bool                     `json:"isAdmin"`
}

// authVerifyHandler はフロントエンドがトークンの有効性と管理者権限を確認するためのエンドポイント。
func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, authVerifyResponse{
			Status:  "ok",
			User:    user,
			IsAdmin: user.Role == common.RoleAdmin,
		})
	}
}
