package utils

import (
	"errors"
	"fmt"
	"imager/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// 令牌由外部身份服务签发，这里只做校验

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims 访问令牌载荷，id 为操作用户
type AccessClaims struct {
	ID uint `json:"id"`
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

// ParseAccessToken 校验 HS256 签名、过期时间以及（已配置时的）签发方，返回载荷
func ParseAccessToken(tokenString string) (*AccessClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer := config.Get().JWT.Issuer; issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.ID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
