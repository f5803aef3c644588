package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AdminClaims is what an admin session token carries.
type AdminClaims struct {
	UserID string
	Email  string
	Role   string
}

func GenerateAdminToken(user models.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not set")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID.Hex(),
		"email":  user.Email,
		"role":   user.Role,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func ParseAdminToken(tokenString, secret string) (AdminClaims, error) {
	if secret == "" {
		return AdminClaims{}, ErrInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return AdminClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AdminClaims{}, ErrInvalidToken
	}
	userID, _ := claims["userId"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return AdminClaims{}, ErrInvalidToken
	}
	return AdminClaims{UserID: userID, Email: email, Role: role}, nil
}
