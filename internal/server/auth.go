package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sngm3741/catering-admin/api/internal/config"
	commonhttp "github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
)

var (
	errAuthNotConfigured = errors.New("認証設定が構成されていません")
	errInvalidToken      = errors.New("アクセストークンが無効です")
	errMissingSubject    = errors.New("subject がありません")
)

// tokenLeeway は発行元とのクロックずれの許容幅。
const tokenLeeway = 30 * time.Second

// authClaims は認証基盤が発行するトークンのクレーム。subject が従業員 ID。
type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Role              string `json:"role,omitempty"`
}

// authMiddleware は Bearer トークンを検証し、認証済みユーザーをコンテキストへ詰める。
// role クレームは /admin 配下の RequireRole で参照される。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, problem := bearerToken(r)
		if problem != "" {
			commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, map[string]string{"error": problem})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		ctx := commonhttp.ContextWithUser(r.Context(), commonhttp.AuthenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Role:     strings.TrimSpace(claims.Role),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken は Authorization ヘッダーからトークンを取り出す。失敗時は利用者向けのメッセージを返す。
func bearerToken(r *http.Request) (token string, problem string) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", "Authorization ヘッダーがありません"
	}
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "Bearer トークンを指定してください"
	}
	token = strings.TrimSpace(rest)
	if token == "" {
		return "", "アクセストークンが空です"
	}
	return token, ""
}

// parseAuthToken は JWT 設定を順に試し、最初に検証できたクレームを返す。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, errAuthNotConfigured
	}
	for _, cfg := range s.jwtConfigs {
		if claims, err := verifyToken(tokenString, cfg, s.jwtAudience); err == nil {
			return claims, nil
		}
	}
	return nil, errInvalidToken
}

func verifyToken(tokenString string, cfg config.JWTConfig, audience string) (*authClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(tokenLeeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &authClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}
