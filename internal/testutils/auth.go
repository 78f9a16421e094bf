package testutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token 使用 HS256 签发测试用访问令牌，载荷 id 为用户 id
func Token(t testing.TB, secret string, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
