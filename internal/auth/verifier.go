// Package auth は外部Identity Providerが発行したidentityトークンの検証を提供する。
//
// 本サービスはIdPを実装しない。リクエストに添付された署名済みトークンを
// 検証し、検証済みの呼び出し元情報（model.Identity）を復元するのみ。
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/productify/internal/model"
)

// Verifier はidentityトークンの検証インターフェース。
type Verifier interface {
	// Verify はトークンを検証し、検証済みの呼び出し元情報を返す。
	// 無効・期限切れ・署名不正のトークンにはエラーを返す。
	Verify(tokenString string) (*model.Identity, error)
}

// JWTVerifier はHMAC署名されたJWTを検証するVerifier実装。
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier はJWTVerifierを生成する。
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify はJWTを検証し、クレームから呼び出し元情報を復元する。
// subクレームが必須。email、name、image_urlは任意クレームとして扱う。
func (v *JWTVerifier) Verify(tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse identity token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid identity token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("identity token has no subject")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	imageURL, _ := claims["image_url"].(string)

	return &model.Identity{
		UserID:   sub,
		Email:    email,
		Name:     name,
		ImageURL: imageURL,
	}, nil
}

// compile-time interface check
var _ Verifier = (*JWTVerifier)(nil)
