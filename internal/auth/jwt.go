// Package auth 以 JWT 驗證 WebSocket 連線的玩家身分
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/koopa0/system-design/paddle-arena/internal"
	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
)

// Claims 憑證內容
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTBinder 以 HS256 JWT 綁定玩家身分
//
// 憑證依序從 ?token= 查詢參數、Authorization: Bearer 標頭取得；
// 瀏覽器的 WebSocket API 不能設定標頭，所以查詢參數優先。
type JWTBinder struct {
	secret []byte
	issuer string
}

var _ internal.IdentityBinder = (*JWTBinder)(nil)

// NewJWTBinder 創建綁定器
func NewJWTBinder(secret, issuer string) *JWTBinder {
	return &JWTBinder{secret: []byte(secret), issuer: issuer}
}

// Identify 驗證請求並返回玩家身分
func (b *JWTBinder) Identify(r *http.Request) (internal.Identity, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return internal.Identity{}, apperrors.ErrMissingToken
	}

	claims, err := b.Validate(raw)
	if err != nil {
		return internal.Identity{}, err
	}

	name := claims.Name
	if name == "" {
		name = claims.UserID
	}
	return internal.Identity{ID: claims.UserID, Name: name, Email: claims.Email}, nil
}

// Validate 解析並驗證簽章、期限與簽發者
func (b *JWTBinder) Validate(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if b.issuer != "" {
		opts = append(opts, jwt.WithIssuer(b.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, opts...)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithDetails(err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken.WithDetails("missing user_id")
	}
	return claims, nil
}

// Issue 簽發憑證（開發工具與測試用）
func (b *JWTBinder) Issue(userID, name, email string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id required")
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    b.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func tokenFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
