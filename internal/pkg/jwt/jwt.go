package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims 业务声明。Refresh 区分刷新令牌与访问令牌，
// ID(jti) 用于登出时写入吊销名单。
type Claims struct {
	UserID  int64 `json:"user_id"`
	Refresh bool  `json:"refresh"`
	jwt.RegisteredClaims
}

// GenerateToken 签发单个令牌
func GenerateToken(userID int64, secret string, expireHours int, refresh bool) (string, error) {
	jti, err := randomJTI()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateTokenPair 签发访问令牌与刷新令牌
func GenerateTokenPair(userID int64, secret string, accessHours, refreshHours int) (access, refresh string, err error) {
	access, err = GenerateToken(userID, secret, accessHours, false)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateToken(userID, secret, refreshHours, true)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ParseToken 解析并校验令牌
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randomJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
